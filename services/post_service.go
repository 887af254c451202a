package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/HSouheill/yoga_blog_backend/models"
	"github.com/HSouheill/yoga_blog_backend/repositories"
	"github.com/HSouheill/yoga_blog_backend/utils"
)

const mediaCleanupTimeout = 30 * time.Second

var (
	ErrMissingFields = errors.New("title, description and at least one media item are required")
	ErrMediaUpload   = errors.New("media upload failed")
	ErrPostNotFound  = repositories.ErrPostNotFound
)

// FeedNotifier is told about feed changes, e.g. to push them to open pages
type FeedNotifier interface {
	NotifyPostCreated(post models.PostSummary)
	NotifyPostDeleted(id string)
}

// PostService runs the upload, feed, detail and delete flows
type PostService struct {
	repo          repositories.PostRepository
	media         MediaStore
	cache         FeedCache
	notifier      FeedNotifier
	publicBaseURL string

	// feedMu orders repository writes against cache fills, so a fill that
	// raced a write can never repopulate the cache with the pre-write list.
	feedMu sync.RWMutex
}

// NewPostService wires the flows; cache and notifier may be nil
func NewPostService(repo repositories.PostRepository, media MediaStore, cache FeedCache, notifier FeedNotifier, publicBaseURL string) *PostService {
	return &PostService{
		repo:          repo,
		media:         media,
		cache:         cache,
		notifier:      notifier,
		publicBaseURL: publicBaseURL,
	}
}

// Create uploads files in order and stores one post holding all of them.
// Pre-hosted items in req.Media come first, then the uploaded files.
func (s *PostService) Create(ctx context.Context, req models.NewPostRequest, uploads []MediaUpload) (*models.Post, error) {
	post := models.Post{
		Title:    utils.CleanLine(req.Title),
		Desc:     utils.CleanText(req.Desc),
		Category: utils.CleanLine(req.Category),
		Author:   utils.CleanLine(req.Author),
	}
	if post.Title == "" || post.Desc == "" || len(req.Media)+len(uploads) == 0 {
		return nil, ErrMissingFields
	}

	post.Media = make([]models.MediaItem, 0, len(req.Media)+len(uploads))
	for _, item := range req.Media {
		if !item.Type.Valid() || item.URL == "" {
			return nil, ErrMissingFields
		}
		post.Media = append(post.Media, item)
	}

	uploaded := make([]models.MediaItem, 0, len(uploads))
	for _, upload := range uploads {
		item, err := s.media.Upload(ctx, upload)
		if err != nil {
			s.discardMedia(uploaded)
			return nil, fmt.Errorf("%w: %w", ErrMediaUpload, err)
		}
		uploaded = append(uploaded, item)
	}
	post.Media = append(post.Media, uploaded...)

	s.feedMu.Lock()
	err := s.repo.Create(ctx, &post)
	if err == nil {
		s.invalidate(ctx)
	}
	s.feedMu.Unlock()
	if err != nil {
		s.discardMedia(uploaded)
		return nil, fmt.Errorf("save post: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyPostCreated(Summarize(post))
	}
	return &post, nil
}

// UploadMedia hosts a single file without creating a post
func (s *PostService) UploadMedia(ctx context.Context, upload MediaUpload) (models.MediaItem, error) {
	item, err := s.media.Upload(ctx, upload)
	if err != nil {
		return models.MediaItem{}, fmt.Errorf("%w: %w", ErrMediaUpload, err)
	}
	return item, nil
}

// List returns every post, newest first
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	if s.cache != nil {
		if posts, ok := s.cache.Get(ctx); ok {
			return posts, nil
		}
	}

	s.feedMu.RLock()
	defer s.feedMu.RUnlock()

	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, posts)
	}
	return posts, nil
}

// Summaries is List in feed form
func (s *PostService) Summaries(ctx context.Context) ([]models.PostSummary, error) {
	posts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PostSummary, len(posts))
	for i, p := range posts {
		out[i] = Summarize(p)
	}
	return out, nil
}

// Get returns a post with the fields the detail view derives from it
func (s *PostService) Get(ctx context.Context, id string) (*models.PostDetail, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := s.Detail(*post)
	return &detail, nil
}

// Delete removes the post document, then its media on a best-effort basis
func (s *PostService) Delete(ctx context.Context, id string) error {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	s.feedMu.Lock()
	err = s.repo.Delete(ctx, id)
	if err == nil {
		s.invalidate(ctx)
	}
	s.feedMu.Unlock()
	if err != nil {
		return err
	}

	s.discardMedia(post.Media)

	if s.notifier != nil {
		s.notifier.NotifyPostDeleted(id)
	}
	return nil
}

// ShareURL is the public detail-page link of a post
func (s *PostService) ShareURL(id string) string {
	return s.publicBaseURL + "/blog/" + id
}

// Detail derives the detail-view fields of p
func (s *PostService) Detail(p models.Post) models.PostDetail {
	minutes := utils.ReadTimeMinutes(p.Desc)
	return models.PostDetail{
		Post:            p,
		Paragraphs:      utils.Paragraphs(p.Desc),
		ReadTimeMinutes: minutes,
		ReadTime:        fmt.Sprintf("%d min read", minutes),
		FormattedDate:   utils.FormatPostDate(p.Date),
		ShareURL:        s.ShareURL(p.ID),
	}
}

// Summarize derives the feed fields of p
func Summarize(p models.Post) models.PostSummary {
	types := make([]models.MediaType, len(p.Media))
	for i, m := range p.Media {
		types[i] = m.Type
	}
	return models.PostSummary{
		Post:       p,
		Excerpt:    utils.Excerpt(p.Desc),
		MediaCount: len(p.Media),
		MediaTypes: types,
	}
}

func (s *PostService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

// discardMedia removes hosted media; failures only get logged
func (s *PostService) discardMedia(items []models.MediaItem) {
	if len(items) == 0 {
		return
	}
	// Detached from the request so a cancelled client does not leave orphans
	ctx, cancel := context.WithTimeout(context.Background(), mediaCleanupTimeout)
	defer cancel()

	for _, item := range items {
		if err := s.media.Delete(ctx, item); err != nil {
			log.Printf("Failed to delete media %s: %v", item.URL, err)
		}
	}
}
