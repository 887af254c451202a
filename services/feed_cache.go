package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/HSouheill/yoga_blog_backend/models"
)

const feedCacheKey = "posts:feed"

// FeedCache holds the ordered post list between writes
type FeedCache interface {
	Get(ctx context.Context) ([]models.Post, bool)
	Set(ctx context.Context, posts []models.Post)
	Invalidate(ctx context.Context)
}

// RedisFeedCache stores the feed as JSON in Redis. A nil client disables it.
type RedisFeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisFeedCache(client *redis.Client, ttl time.Duration) *RedisFeedCache {
	return &RedisFeedCache{client: client, ttl: ttl}
}

func (c *RedisFeedCache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *RedisFeedCache) Get(ctx context.Context) ([]models.Post, bool) {
	if !c.Enabled() {
		return nil, false
	}
	raw, err := c.client.Get(ctx, feedCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("Feed cache read failed: %v", err)
		}
		return nil, false
	}

	var posts []models.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		log.Printf("Feed cache entry corrupt, dropping: %v", err)
		c.Invalidate(ctx)
		return nil, false
	}
	return posts, true
}

func (c *RedisFeedCache) Set(ctx context.Context, posts []models.Post) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(posts)
	if err != nil {
		log.Printf("Feed cache encode failed: %v", err)
		return
	}
	if err := c.client.Set(ctx, feedCacheKey, raw, c.ttl).Err(); err != nil {
		log.Printf("Feed cache write failed: %v", err)
	}
}

func (c *RedisFeedCache) Invalidate(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Del(ctx, feedCacheKey).Err(); err != nil {
		log.Printf("Feed cache invalidate failed: %v", err)
	}
}
