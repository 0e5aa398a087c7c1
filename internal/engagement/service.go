// Package engagement applies follows, likes, bookmarks, comments and new
// posts, and propagates each change to the feed cache, notifications and
// the event stream.
package engagement

import (
	"context"
	"time"

	"github.com/roozanaryal/TwitterClone-sub000/internal/cache"
	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
	"github.com/roozanaryal/TwitterClone-sub000/internal/events"
	"github.com/roozanaryal/TwitterClone-sub000/internal/logger"
	"github.com/roozanaryal/TwitterClone-sub000/internal/metrics"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"github.com/roozanaryal/TwitterClone-sub000/internal/notifications"
	"github.com/roozanaryal/TwitterClone-sub000/internal/repository"
	"github.com/roozanaryal/TwitterClone-sub000/internal/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const publishTimeout = time.Second

// FollowCommand asks ActorID to follow or unfollow TargetID.
type FollowCommand struct {
	ActorID  string
	TargetID string
}

// PostCommand targets one post: like, unlike, bookmark, unbookmark.
type PostCommand struct {
	ActorID string
	PostID  string
}

type CommentCommand struct {
	ActorID string
	PostID  string
	Body    string
}

// PostBodyCommand creates a new post authored by ActorID.
type PostBodyCommand struct {
	ActorID string
	Body    string
}

// Service is the write path for engagement.
type Service struct {
	store     *repository.Store
	feeds     cache.FeedCache
	notifier  *notifications.Emitter
	publisher events.Publisher
}

// NewService wires the engagement service. A nil feed cache or publisher
// disables that side effect.
func NewService(store *repository.Store, feeds cache.FeedCache, notifier *notifications.Emitter, publisher events.Publisher) *Service {
	if feeds == nil {
		feeds = cache.NoopFeedCache{}
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Service{
		store:     store,
		feeds:     feeds,
		notifier:  notifier,
		publisher: publisher,
	}
}

func (s *Service) start(ctx context.Context, action, actorID, targetID string) (context.Context, trace.Span) {
	return telemetry.TraceAction(ctx, action, actorID, targetID)
}

// finish records the outcome of one action.
func (s *Service) finish(action string, span trace.Span, err error) {
	result := "ok"
	if err != nil {
		result = apperrors.KindOf(err).String()
	}
	metrics.RecordEngagement(action, result)
	telemetry.End(span, err)
}

// requireActor checks that the caller resolved to a stored user.
func (s *Service) requireActor(ctx context.Context, actorID string) error {
	if actorID == "" {
		return apperrors.Unauthorized("authentication required")
	}
	return s.requireUser(ctx, actorID)
}

func (s *Service) requireUser(ctx context.Context, userID string) error {
	ok, err := s.store.Users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound("user")
	}
	return nil
}

// invalidate drops cached pages. A cache failure is logged and the stale
// page expires with its TTL.
func (s *Service) invalidate(ctx context.Context, scopes ...cache.Scope) {
	if err := s.feeds.Invalidate(ctx, scopes...); err != nil {
		metrics.RecordFeedCacheError("invalidate")
		logger.WarnWithFields("Failed to invalidate feed cache", err, zap.Int("scopes", len(scopes)))
	}
}

func (s *Service) notify(ctx context.Context, a notifications.Action) {
	if s.notifier == nil {
		return
	}
	s.notifier.Emit(ctx, a)
}

func (s *Service) publish(ctx context.Context, eventType events.Type, actorID, subject string, payload interface{}) {
	event, err := events.NewEvent(eventType, actorID, subject, payload)
	if err != nil {
		logger.WarnWithFields("Failed to build event", err, zap.String("event_type", string(eventType)))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	backend := s.publisher.Backend()
	if err := s.publisher.Publish(ctx, event); err != nil {
		metrics.RecordEventPublished(backend, "failed")
		logger.WarnWithFields("Failed to publish event", err,
			zap.String("event_type", string(eventType)),
			zap.String("backend", backend),
		)
		return
	}
	metrics.RecordEventPublished(backend, "ok")
}

func feedScope(view models.FeedView, viewerID string) cache.Scope {
	return cache.Scope{View: view, ViewerID: viewerID}
}

// postScopes are the views whose counts or flags change when actorID
// engages with a post owned by ownerID.
func postScopes(actorID, ownerID string) []cache.Scope {
	return []cache.Scope{
		feedScope(models.FeedGlobal, cache.AllViewers),
		feedScope(models.FeedOwn, ownerID),
		feedScope(models.FeedFollowing, actorID),
		feedScope(models.FeedFollowing, ownerID),
		feedScope(models.FeedBookmarks, actorID),
	}
}
