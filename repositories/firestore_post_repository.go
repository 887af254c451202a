package repositories

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/HSouheill/yoga_blog_backend/models"
)

// firestorePost adds the serverTimestamp transform to the date field
type firestorePost struct {
	Title    string             `firestore:"title"`
	Desc     string             `firestore:"desc"`
	Media    []models.MediaItem `firestore:"media"`
	Date     interface{}        `firestore:"date"`
	Category string             `firestore:"category,omitempty"`
	Author   string             `firestore:"author,omitempty"`
}

type FirestorePostRepository struct {
	client     *firestore.Client
	collection string
}

func NewFirestorePostRepository(client *firestore.Client, collection string) *FirestorePostRepository {
	return &FirestorePostRepository{client: client, collection: collection}
}

func (r *FirestorePostRepository) Create(ctx context.Context, p *models.Post) error {
	ref, wr, err := r.client.Collection(r.collection).Add(ctx, firestorePost{
		Title:    p.Title,
		Desc:     p.Desc,
		Media:    p.Media,
		Date:     firestore.ServerTimestamp,
		Category: p.Category,
		Author:   p.Author,
	})
	if err != nil {
		return fmt.Errorf("add post: %w", err)
	}

	p.ID = ref.ID
	// The commit time is the value the server wrote into "date"
	p.Date = wr.UpdateTime.UTC()
	return nil
}

func (r *FirestorePostRepository) List(ctx context.Context) ([]models.Post, error) {
	snaps, err := r.client.Collection(r.collection).OrderBy("date", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}

	posts := make([]models.Post, 0, len(snaps))
	for _, snap := range snaps {
		p, err := decodeSnapshot(snap)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (r *FirestorePostRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	if !validDocID(id) {
		return nil, ErrPostNotFound
	}

	snap, err := r.client.Collection(r.collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrPostNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}

	p, err := decodeSnapshot(snap)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *FirestorePostRepository) Delete(ctx context.Context, id string) error {
	if !validDocID(id) {
		return ErrPostNotFound
	}

	// Firestore deletes are no-ops for missing docs; the Exists precondition surfaces them
	_, err := r.client.Collection(r.collection).Doc(id).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return ErrPostNotFound
	} else if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}

func decodeSnapshot(snap *firestore.DocumentSnapshot) (models.Post, error) {
	var p models.Post
	if err := snap.DataTo(&p); err != nil {
		return models.Post{}, fmt.Errorf("decode post %s: %w", snap.Ref.ID, err)
	}
	p.ID = snap.Ref.ID
	p.Date = p.Date.UTC()
	if p.Media == nil {
		p.Media = []models.MediaItem{}
	}
	return p, nil
}

func validDocID(id string) bool {
	return id != "" && !strings.Contains(id, "/") && id != "." && id != ".."
}
