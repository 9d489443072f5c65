package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/portal-service/internal/domain"
)

const keyPrefix = "portal:posts"

// ListingCache stores public post listings per category and page. Each
// category has a generation counter in its keys; Invalidate bumps it so stale
// pages are never read again and age out through their TTL.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache returns a cache over client. A nil client or non-positive
// ttl yields a disabled cache whose reads always miss.
func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{client: client, ttl: ttl}
}

// Enabled reports whether reads and writes reach Redis.
func (c *ListingCache) Enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// PageKey identifies one cached page under the generation that was current
// when it was looked up. The zero value disables the write.
type PageKey string

// GetPosts returns a cached page and whether it was present. On a miss the
// returned key is where the page should be stored: a listing loaded after an
// Invalidate lands under the old generation and is never read.
func (c *ListingCache) GetPosts(ctx context.Context, category domain.PostCategory, limit, offset int) ([]domain.Post, PageKey, bool, error) {
	if !c.Enabled() {
		return nil, "", false, nil
	}
	key, err := c.pageKey(ctx, category, limit, offset)
	if err != nil {
		return nil, "", false, err
	}

	raw, err := c.client.Get(ctx, string(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, key, false, nil
	}
	if err != nil {
		return nil, "", false, err
	}

	var posts []domain.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, key, false, fmt.Errorf("decode cached listing: %w", err)
	}
	return posts, key, true, nil
}

// SetPosts stores a page under key, as returned by GetPosts.
func (c *ListingCache) SetPosts(ctx context.Context, key PageKey, posts []domain.Post) error {
	if !c.Enabled() || key == "" {
		return nil
	}
	raw, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, string(key), raw, c.ttl).Err()
}

// Invalidate drops every cached page of category.
func (c *ListingCache) Invalidate(ctx context.Context, category domain.PostCategory) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Incr(ctx, generationKey(category)).Err()
}

func (c *ListingCache) pageKey(ctx context.Context, category domain.PostCategory, limit, offset int) (PageKey, error) {
	gen, err := c.client.Get(ctx, generationKey(category)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return PageKey(fmt.Sprintf("%s:%s:g%d:%d:%d", keyPrefix, category, gen, limit, offset)), nil
}

func generationKey(category domain.PostCategory) string {
	return fmt.Sprintf("%s:%s:gen", keyPrefix, category)
}
