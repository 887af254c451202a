package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HSouheill/yoga_blog_backend/models"
)

// postDocument is the BSON shape of a post
type postDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	models.Post `bson:",inline"`
}

type MongoPostRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewMongoPostRepository(db *mongo.Database, collection string) *MongoPostRepository {
	return &MongoPostRepository{
		collection: db.Collection(collection),
		now:        time.Now,
	}
}

func (r *MongoPostRepository) Create(ctx context.Context, p *models.Post) error {
	doc := postDocument{ID: primitive.NewObjectID(), Post: *p}
	// Mongo stores milliseconds; truncate so the returned post matches a later read
	doc.Date = r.now().UTC().Truncate(time.Millisecond)

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	p.ID = doc.ID.Hex()
	p.Date = doc.Date
	return nil
}

func (r *MongoPostRepository) List(ctx context.Context) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	for cursor.Next(ctx) {
		var doc postDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		posts = append(posts, doc.toPost())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

func (r *MongoPostRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	var doc postDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPostNotFound
	} else if err != nil {
		return nil, fmt.Errorf("find post %s: %w", id, err)
	}

	p := doc.toPost()
	return &p, nil
}

func (r *MongoPostRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrPostNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (d postDocument) toPost() models.Post {
	p := d.Post
	p.ID = d.ID.Hex()
	if p.Media == nil {
		p.Media = []models.MediaItem{}
	}
	return p
}
