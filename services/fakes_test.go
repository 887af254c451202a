package services

import (
	"context"
	"errors"
	"io"
	"strconv"
	"sync"

	"github.com/HSouheill/yoga_blog_backend/models"
)

var errUpstream = errors.New("upstream unavailable")

// fakeMediaStore hosts uploads in memory; failAt makes the n-th upload (1-based) fail
type fakeMediaStore struct {
	mu      sync.Mutex
	failAt  int
	calls   int
	uploads []string
	deleted []string
}

func (f *fakeMediaStore) Name() string { return "fake" }

func (f *fakeMediaStore) Upload(_ context.Context, upload MediaUpload) (models.MediaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.failAt == f.calls {
		return models.MediaItem{}, errUpstream
	}
	if err := checkUpload(upload, 0); err != nil {
		return models.MediaItem{}, err
	}
	if _, err := io.Copy(io.Discard, upload.Reader); err != nil {
		return models.MediaItem{}, err
	}
	id := "media-" + strconv.Itoa(f.calls)
	f.uploads = append(f.uploads, upload.Filename)
	return models.MediaItem{
		URL:      "https://cdn.test/" + id + "/" + upload.Filename,
		Type:     upload.Type(),
		PublicID: id,
	}, nil
}

func (f *fakeMediaStore) Delete(_ context.Context, item models.MediaItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, item.PublicID)
	return nil
}

// memoryFeedCache is a FeedCache without Redis
type memoryFeedCache struct {
	mu          sync.Mutex
	posts       []models.Post
	ok          bool
	hits        int
	invalidated int
}

func (c *memoryFeedCache) Get(context.Context) ([]models.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ok {
		c.hits++
	}
	return c.posts, c.ok
}

func (c *memoryFeedCache) Set(_ context.Context, posts []models.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts, c.ok = posts, true
}

func (c *memoryFeedCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts, c.ok = nil, false
	c.invalidated++
}

type recordingNotifier struct {
	mu      sync.Mutex
	created []string
	deleted []string
}

func (n *recordingNotifier) NotifyPostCreated(post models.PostSummary) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, post.ID)
}

func (n *recordingNotifier) NotifyPostDeleted(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deleted = append(n.deleted, id)
}
