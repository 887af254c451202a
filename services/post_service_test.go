package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/HSouheill/yoga_blog_backend/models"
	"github.com/HSouheill/yoga_blog_backend/repositories"
)

func upload(name, contentType string) MediaUpload {
	return MediaUpload{
		Filename:    name,
		ContentType: contentType,
		Size:        4,
		Reader:      strings.NewReader("data"),
	}
}

func newTestPostService() (*PostService, *fakeMediaStore, *memoryFeedCache, *recordingNotifier) {
	base := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
	tick := 0
	repo := repositories.NewMemoryPostRepository().WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})
	media := &fakeMediaStore{}
	cache := &memoryFeedCache{}
	notifier := &recordingNotifier{}
	return NewPostService(repo, media, cache, notifier, "https://yoga.test"), media, cache, notifier
}

func TestCreatePostValidation(t *testing.T) {
	svc, media, _, _ := newTestPostService()
	ctx := context.Background()

	tests := []struct {
		name    string
		req     models.NewPostRequest
		uploads []MediaUpload
	}{
		{name: "missing title", req: models.NewPostRequest{Desc: "Body"}, uploads: []MediaUpload{upload("a.jpg", "image/jpeg")}},
		{name: "blank desc", req: models.NewPostRequest{Title: "Title", Desc: "  \n "}, uploads: []MediaUpload{upload("a.jpg", "image/jpeg")}},
		{name: "no media", req: models.NewPostRequest{Title: "Title", Desc: "Body"}},
		{name: "bad pre-hosted media", req: models.NewPostRequest{
			Title: "Title", Desc: "Body",
			Media: []models.MediaItem{{URL: "https://cdn.test/x", Type: "audio"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.req, tt.uploads); !errors.Is(err, ErrMissingFields) {
				t.Errorf("Create() error = %v, want ErrMissingFields", err)
			}
		})
	}
	if media.calls != 0 {
		t.Errorf("media store called %d times for invalid input", media.calls)
	}
}

func TestCreatePostKeepsMediaOrder(t *testing.T) {
	svc, _, _, notifier := newTestPostService()
	ctx := context.Background()

	req := models.NewPostRequest{
		Title: "  Morning flow ",
		Desc:  "Start slow.\n\nBreathe.",
		Media: []models.MediaItem{{URL: "https://cdn.test/hosted.jpg", Type: models.MediaImage}},
	}
	post, err := svc.Create(ctx, req, []MediaUpload{
		upload("one.jpg", "image/jpeg"),
		upload("two.mp4", "video/mp4"),
	})
	if err != nil {
		t.Fatal(err)
	}

	if post.Title != "Morning flow" {
		t.Errorf("title not trimmed: %q", post.Title)
	}
	wantTypes := []models.MediaType{models.MediaImage, models.MediaImage, models.MediaVideo}
	if len(post.Media) != len(wantTypes) {
		t.Fatalf("post has %d media items, want %d", len(post.Media), len(wantTypes))
	}
	for i, want := range wantTypes {
		if post.Media[i].Type != want {
			t.Errorf("media[%d].Type = %q, want %q", i, post.Media[i].Type, want)
		}
	}
	if post.Media[0].URL != "https://cdn.test/hosted.jpg" || !strings.HasSuffix(post.Media[2].URL, "two.mp4") {
		t.Errorf("media out of order: %+v", post.Media)
	}
	if len(notifier.created) != 1 || notifier.created[0] != post.ID {
		t.Errorf("notifier.created = %v", notifier.created)
	}
}

func TestCreatePostUploadFailureDiscardsUploaded(t *testing.T) {
	svc, media, _, notifier := newTestPostService()
	media.failAt = 3

	_, err := svc.Create(context.Background(), models.NewPostRequest{Title: "T", Desc: "D"}, []MediaUpload{
		upload("a.jpg", "image/jpeg"),
		upload("b.jpg", "image/jpeg"),
		upload("c.jpg", "image/jpeg"),
	})
	if !errors.Is(err, ErrMediaUpload) {
		t.Fatalf("Create() error = %v, want ErrMediaUpload", err)
	}
	if strings.Join(media.deleted, ",") != "media-1,media-2" {
		t.Errorf("deleted = %v, want the two uploaded items", media.deleted)
	}

	posts, _ := svc.List(context.Background())
	if len(posts) != 0 {
		t.Errorf("a post was written despite the failed upload: %+v", posts)
	}
	if len(notifier.created) != 0 {
		t.Error("post_created sent for a failed upload")
	}
}

func TestCreatePostRejectsUnsupportedFile(t *testing.T) {
	svc, _, _, _ := newTestPostService()
	_, err := svc.Create(context.Background(), models.NewPostRequest{Title: "T", Desc: "D"}, []MediaUpload{
		upload("notes.pdf", "application/pdf"),
	})
	if !errors.Is(err, ErrUnsupportedMedia) || !errors.Is(err, ErrMediaUpload) {
		t.Errorf("Create() error = %v, want ErrUnsupportedMedia wrapped in ErrMediaUpload", err)
	}
}

func TestListNewestFirstAndDelete(t *testing.T) {
	svc, media, cache, notifier := newTestPostService()
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		post, err := svc.Create(ctx, models.NewPostRequest{Title: title, Desc: "D"}, []MediaUpload{upload(title+".jpg", "image/jpeg")})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, post.ID)
	}

	posts, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 3 || posts[0].Title != "third" || posts[2].Title != "first" {
		t.Fatalf("List() not newest first: %+v", posts)
	}
	if _, err := svc.List(ctx); err != nil || cache.hits != 1 {
		t.Errorf("second List did not hit the cache (hits=%d, err=%v)", cache.hits, err)
	}

	if err := svc.Delete(ctx, ids[1]); err != nil {
		t.Fatal(err)
	}
	posts, _ = svc.List(ctx)
	for _, p := range posts {
		if p.ID == ids[1] {
			t.Fatal("deleted post still listed")
		}
	}
	if len(posts) != 2 {
		t.Errorf("List() after delete has %d posts, want 2", len(posts))
	}
	if len(media.deleted) != 1 {
		t.Errorf("media of deleted post not removed: %v", media.deleted)
	}
	if len(notifier.deleted) != 1 || notifier.deleted[0] != ids[1] {
		t.Errorf("notifier.deleted = %v", notifier.deleted)
	}

	if err := svc.Delete(ctx, ids[1]); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("second Delete = %v, want ErrPostNotFound", err)
	}
}

func TestGetPostDetail(t *testing.T) {
	svc, _, _, _ := newTestPostService()
	ctx := context.Background()

	desc := strings.TrimSpace(strings.Repeat("breathe ", 250)) + "\n\nSecond paragraph."
	post, err := svc.Create(ctx, models.NewPostRequest{Title: "Long read", Desc: desc}, []MediaUpload{upload("a.png", "image/png")})
	if err != nil {
		t.Fatal(err)
	}

	detail, err := svc.Get(ctx, post.ID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.ReadTimeMinutes != 2 || detail.ReadTime != "2 min read" {
		t.Errorf("read time = %d / %q", detail.ReadTimeMinutes, detail.ReadTime)
	}
	if len(detail.Paragraphs) != 2 {
		t.Errorf("paragraphs = %d, want 2", len(detail.Paragraphs))
	}
	if detail.FormattedDate != "June 1, 2024" {
		t.Errorf("formatted date = %q", detail.FormattedDate)
	}
	if detail.ShareURL != "https://yoga.test/blog/"+post.ID {
		t.Errorf("share url = %q", detail.ShareURL)
	}

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("Get(missing) = %v, want ErrPostNotFound", err)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(models.Post{
		Desc: "Intro line\nBody",
		Media: []models.MediaItem{
			{URL: "a", Type: models.MediaVideo},
			{URL: "b", Type: models.MediaImage},
		},
	})
	if s.Excerpt != "Intro line" || s.MediaCount != 2 || s.MediaTypes[0] != models.MediaVideo {
		t.Errorf("Summarize() = %+v", s)
	}
}
