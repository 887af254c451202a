package repositories

import (
	"context"
	"errors"

	"github.com/HSouheill/yoga_blog_backend/models"
)

// ErrPostNotFound is returned when no post exists under the given id
var ErrPostNotFound = errors.New("post not found")

// PostRepository persists posts. There is deliberately no update method:
// a post only changes by being deleted as a whole.
type PostRepository interface {
	// Create stores p, assigning its ID and server timestamp Date
	Create(ctx context.Context, p *models.Post) error
	// List returns every post, newest first
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Delete(ctx context.Context, id string) error
}
