package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/HSouheill/yoga_blog_backend/models"
)

func TestObjectKey(t *testing.T) {
	key := objectKey(models.MediaVideo, "My Flow.MOV")
	if !regexp.MustCompile(`^videos/[0-9a-f-]{36}\.mov$`).MatchString(key) {
		t.Errorf("objectKey() = %q", key)
	}
}

func TestVideoPosterURL(t *testing.T) {
	tests := map[string]string{
		"https://res.cloudinary.com/demo/video/upload/v1/yoga/flow.mp4": "https://res.cloudinary.com/demo/video/upload/v1/yoga/flow.jpg",
		"https://res.cloudinary.com/demo/video/upload/v1/yoga/flow":     "https://res.cloudinary.com/demo/video/upload/v1/yoga/flow.jpg",
	}
	for in, want := range tests {
		if got := videoPosterURL(in); got != want {
			t.Errorf("videoPosterURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRedisFeedCacheDisabled(t *testing.T) {
	cache := NewRedisFeedCache(nil, 0)
	if cache.Enabled() {
		t.Fatal("cache without a client reports enabled")
	}
	ctx := context.Background()
	cache.Set(ctx, []models.Post{{ID: "1"}})
	cache.Invalidate(ctx)
	if _, ok := cache.Get(ctx); ok {
		t.Error("disabled cache returned a hit")
	}
}
