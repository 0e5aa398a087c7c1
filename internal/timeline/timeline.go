// Package timeline assembles the paginated feed views: global, following,
// own and bookmarks.
package timeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/roozanaryal/TwitterClone-sub000/internal/cache"
	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
	"github.com/roozanaryal/TwitterClone-sub000/internal/logger"
	"github.com/roozanaryal/TwitterClone-sub000/internal/metrics"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"github.com/roozanaryal/TwitterClone-sub000/internal/repository"
	"github.com/roozanaryal/TwitterClone-sub000/internal/telemetry"
	"go.uber.org/zap"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// FeedRequest asks for one page of a view. Cursor is the nextCursor of the
// previous page, empty for the first page. Limit 0 means DefaultLimit.
type FeedRequest struct {
	View     models.FeedView
	ViewerID string
	Cursor   string
	Limit    int
}

// PostView is a post as rendered in a feed.
type PostView struct {
	ID                 string             `json:"id"`
	Body               string             `json:"body"`
	CreatedAt          time.Time          `json:"createdAt"`
	Owner              models.UserSummary `json:"owner"`
	LikeCount          int64              `json:"likeCount"`
	CommentCount       int64              `json:"commentCount"`
	BookmarkCount      int64              `json:"bookmarkCount"`
	LikedByViewer      bool               `json:"likedByViewer"`
	BookmarkedByViewer bool               `json:"bookmarkedByViewer"`
}

// FeedPage is one page of a view, newest first. NextCursor is nil on the
// last page.
type FeedPage struct {
	Posts        []PostView `json:"posts"`
	NextCursor   *string    `json:"nextCursor"`
	NoContentYet bool       `json:"noContentYet,omitempty"`
}

// Assembler builds feed pages. It never writes to the store.
type Assembler struct {
	store *repository.Store
	feeds cache.FeedCache
}

// NewAssembler creates an assembler. A nil cache disables caching.
func NewAssembler(store *repository.Store, feeds cache.FeedCache) *Assembler {
	if feeds == nil {
		feeds = cache.NoopFeedCache{}
	}
	return &Assembler{store: store, feeds: feeds}
}

// GetFeed returns one page of req.View as seen by req.ViewerID.
func (a *Assembler) GetFeed(ctx context.Context, req FeedRequest) (page *FeedPage, err error) {
	ctx, span := telemetry.TraceFeed(ctx, string(req.View), req.ViewerID, req.Limit, req.Cursor != "")
	defer func() { telemetry.End(span, err) }()

	q, cursor, err := req.query()
	if err != nil {
		return nil, err
	}

	key := cache.FeedKey(q.View, q.ViewerID, cursor, q.Limit)
	if page, ok := a.cached(ctx, key, q.View); ok {
		return page, nil
	}

	start := time.Now()
	posts, err := a.fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	views, err := a.enrich(ctx, q.ViewerID, posts)
	if err != nil {
		return nil, err
	}

	page = &FeedPage{Posts: views}
	if len(views) == q.Limit {
		next := encodeCursor(views[len(views)-1])
		page.NextCursor = &next
	}
	if len(views) == 0 && q.Before == nil {
		page.NoContentYet = true
	}
	metrics.ObserveFeedGeneration(string(q.View), time.Since(start).Seconds())

	a.save(ctx, key, page)
	return page, nil
}

// query validates the request. The returned cursor is normalized for use
// in cache keys.
func (r FeedRequest) query() (repository.FeedQuery, string, error) {
	q := repository.FeedQuery{View: r.View, ViewerID: r.ViewerID, Limit: r.Limit}

	if r.ViewerID == "" {
		return q, "", apperrors.Unauthorized("authentication required")
	}
	if !r.View.Valid() {
		return q, "", apperrors.ValidationError("view", "view must be one of global, following, own, bookmarks")
	}

	switch {
	case r.Limit == 0:
		q.Limit = DefaultLimit
	case r.Limit < 1 || r.Limit > MaxLimit:
		return q, "", apperrors.ValidationError("limit", "limit must be between 1 and 50")
	}

	if r.Cursor == "" {
		return q, "", nil
	}
	before, beforeID, err := decodeCursor(r.Cursor)
	if err != nil {
		return q, "", err
	}
	q.Before = &before
	q.BeforeID = beforeID

	key := before.Format(time.RFC3339Nano)
	if beforeID != "" {
		key += cursorSep + beforeID
	}
	return q, key, nil
}

// fetch reads the page, retrying once on a store failure that is not a
// timeout.
func (a *Assembler) fetch(ctx context.Context, q repository.FeedQuery) ([]*models.Post, error) {
	posts, err := a.store.Posts.FeedPage(ctx, q)
	if err == nil || !retryable(ctx, err) {
		return posts, err
	}

	logger.WarnWithFields("Feed query failed, retrying", err,
		logger.WithView(string(q.View)),
		logger.WithUserID(q.ViewerID),
	)
	return a.store.Posts.FeedPage(ctx, q)
}

func retryable(ctx context.Context, err error) bool {
	return ctx.Err() == nil &&
		apperrors.IsKind(err, apperrors.KindStore) &&
		!apperrors.IsTimeout(err)
}

func (a *Assembler) cached(ctx context.Context, key string, view models.FeedView) (*FeedPage, bool) {
	data, found, err := a.feeds.Get(ctx, key)
	if err != nil {
		metrics.RecordFeedCacheError("get")
		logger.WarnWithFields("Feed cache read failed", err, zap.String("key", key))
		return nil, false
	}
	if !found {
		metrics.RecordFeedCacheMiss(string(view))
		return nil, false
	}

	var page FeedPage
	if err := json.Unmarshal(data, &page); err != nil {
		metrics.RecordFeedCacheError("decode")
		logger.WarnWithFields("Discarding undecodable feed cache entry", err, zap.String("key", key))
		return nil, false
	}
	metrics.RecordFeedCacheHit(string(view))
	return &page, true
}

func (a *Assembler) save(ctx context.Context, key string, page *FeedPage) {
	data, err := json.Marshal(page)
	if err != nil {
		logger.WarnWithFields("Failed to encode feed page", err, zap.String("key", key))
		return
	}
	if err := a.feeds.Set(ctx, key, data); err != nil {
		metrics.RecordFeedCacheError("set")
		logger.WarnWithFields("Feed cache write failed", err, zap.String("key", key))
	}
}
