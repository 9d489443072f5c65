package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/portal-service/internal/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*ListingCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewListingCache(client, ttl), mr
}

func store(t *testing.T, c *ListingCache, category domain.PostCategory, limit, offset int, posts []domain.Post) {
	t.Helper()
	_, key, _, err := c.GetPosts(context.Background(), category, limit, offset)
	require.NoError(t, err)
	require.NoError(t, c.SetPosts(context.Background(), key, posts))
}

func TestListingCacheRoundTrip(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, key, ok, err := c.GetPosts(ctx, domain.PostCategoryJob, 20, 0)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NotEmpty(t, key)

	posts := []domain.Post{{ID: "p1", Category: domain.PostCategoryJob, Title: "Clerk", Slug: "clerk", Published: true}}
	require.NoError(t, c.SetPosts(ctx, key, posts))

	got, _, ok, err := c.GetPosts(ctx, domain.PostCategoryJob, 20, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "clerk", got[0].Slug)

	_, _, ok, err = c.GetPosts(ctx, domain.PostCategoryJob, 20, 20)
	require.NoError(t, err)
	assert.False(t, ok, "other pages are separate entries")
}

func TestListingCacheInvalidateIsPerCategory(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	store(t, c, domain.PostCategoryJob, 20, 0, []domain.Post{{ID: "j"}})
	store(t, c, domain.PostCategoryNews, 20, 0, []domain.Post{{ID: "n"}})

	require.NoError(t, c.Invalidate(ctx, domain.PostCategoryJob))

	_, _, ok, err := c.GetPosts(ctx, domain.PostCategoryJob, 20, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, ok, err = c.GetPosts(ctx, domain.PostCategoryNews, 20, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListingCacheExpires(t *testing.T) {
	t.Parallel()

	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	store(t, c, domain.PostCategoryResult, 10, 0, []domain.Post{{ID: "r"}})
	mr.FastForward(2 * time.Minute)

	_, _, ok, err := c.GetPosts(ctx, domain.PostCategoryResult, 10, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDisabledCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for _, c := range []*ListingCache{nil, NewListingCache(nil, time.Minute), NewListingCache(redis.NewClient(&redis.Options{}), 0)} {
		assert.False(t, c.Enabled())
		require.NoError(t, c.SetPosts(ctx, "portal:posts:job:g0:1:0", nil))
		require.NoError(t, c.Invalidate(ctx, domain.PostCategoryJob))
		_, key, ok, err := c.GetPosts(ctx, domain.PostCategoryJob, 1, 0)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, key)
	}
}

func TestListingCacheWriteAfterInvalidateIsNotServed(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, key, ok, err := c.GetPosts(ctx, domain.PostCategoryJob, 20, 0)
	require.NoError(t, err)
	require.False(t, ok)

	// A post changes while the listing that missed is still loading.
	require.NoError(t, c.Invalidate(ctx, domain.PostCategoryJob))
	require.NoError(t, c.SetPosts(ctx, key, []domain.Post{}))

	_, _, ok, err = c.GetPosts(ctx, domain.PostCategoryJob, 20, 0)
	require.NoError(t, err)
	assert.False(t, ok, "a page loaded before the invalidation must not be served after it")
}
