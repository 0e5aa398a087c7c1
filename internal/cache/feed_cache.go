package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
)

const feedKeyPrefix = "feed"

// AllViewers is the Scope.ViewerID that matches every viewer's copy of a
// view.
const AllViewers = "*"

// Scope names the cached pages to drop: one view, for one viewer or for
// AllViewers.
type Scope struct {
	View     models.FeedView
	ViewerID string
}

// Pattern is the key pattern matching every page in the scope.
func (s Scope) Pattern() string {
	return fmt.Sprintf("%s:%s:%s:*", feedKeyPrefix, s.View, s.ViewerID)
}

func (s Scope) String() string {
	return fmt.Sprintf("%s:%s", s.View, s.ViewerID)
}

// FeedKey identifies one cached feed page. Every key carries the viewer
// id, so a page is only ever served back to the viewer it was built for.
func FeedKey(view models.FeedView, viewerID, cursor string, limit int) string {
	if cursor == "" {
		cursor = "first"
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s", feedKeyPrefix, view, viewerID, cursor, strconv.Itoa(limit))
}

// FeedCache stores serialized feed pages for a bounded time. Engagement
// writes call Invalidate for the views they affect.
type FeedCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, page []byte) error
	Invalidate(ctx context.Context, scopes ...Scope) error
}

// RedisFeedCache keeps feed pages in Redis with a fixed TTL.
type RedisFeedCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewRedisFeedCache creates a feed cache over rc.
func NewRedisFeedCache(rc *RedisClient, ttl time.Duration) *RedisFeedCache {
	return &RedisFeedCache{redis: rc, ttl: ttl}
}

func (c *RedisFeedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.redis.GetBytes(ctx, key)
}

func (c *RedisFeedCache) Set(ctx context.Context, key string, page []byte) error {
	return c.redis.SetEx(ctx, key, page, c.ttl)
}

func (c *RedisFeedCache) Invalidate(ctx context.Context, scopes ...Scope) error {
	for _, scope := range dedupe(scopes) {
		if _, err := c.redis.DelPattern(ctx, scope.Pattern()); err != nil {
			return fmt.Errorf("invalidate %s: %w", scope, err)
		}
	}
	return nil
}

// NoopFeedCache never stores anything. Used when caching is disabled.
type NoopFeedCache struct{}

func (NoopFeedCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NoopFeedCache) Set(context.Context, string, []byte) error         { return nil }
func (NoopFeedCache) Invalidate(context.Context, ...Scope) error        { return nil }

func dedupe(scopes []Scope) []Scope {
	seen := make(map[Scope]struct{}, len(scopes))
	out := make([]Scope, 0, len(scopes))
	for _, s := range scopes {
		if s.ViewerID == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
