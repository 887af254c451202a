package repositories

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/HSouheill/yoga_blog_backend/models"
)

// MemoryPostRepository keeps posts in process memory
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[string]models.Post
	seq   int64
	now   func() time.Time
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{
		posts: make(map[string]models.Post),
		now:   time.Now,
	}
}

// WithClock replaces the timestamp source, for tests
func (r *MemoryPostRepository) WithClock(now func() time.Time) *MemoryPostRepository {
	r.now = now
	return r
}

func (r *MemoryPostRepository) Create(_ context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	p.ID = strconv.FormatInt(r.seq, 10)
	p.Date = r.now().UTC()

	stored := *p
	stored.Media = append([]models.MediaItem(nil), p.Media...)
	r.posts[p.ID] = stored
	return nil
}

func (r *MemoryPostRepository) List(_ context.Context) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, clonePost(p))
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		// Same timestamp: later insertion first
		a, _ := strconv.ParseInt(posts[i].ID, 10, 64)
		b, _ := strconv.ParseInt(posts[j].ID, 10, 64)
		return a > b
	})
	return posts, nil
}

func (r *MemoryPostRepository) Get(_ context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	out := clonePost(p)
	return &out, nil
}

func (r *MemoryPostRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func clonePost(p models.Post) models.Post {
	p.Media = append([]models.MediaItem{}, p.Media...)
	return p
}
