package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/roozanaryal/TwitterClone-sub000/internal/logger"
	"github.com/roozanaryal/TwitterClone-sub000/internal/metrics"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"github.com/roozanaryal/TwitterClone-sub000/internal/repository"
	"github.com/roozanaryal/TwitterClone-sub000/internal/telemetry"
	"go.uber.org/zap"
)

// DefaultEmitTimeout bounds one emission attempt when none is configured.
const DefaultEmitTimeout = 2 * time.Second

var templates = map[models.NotificationKind]string{
	models.NotificationLike:    "%s liked your post",
	models.NotificationComment: "%s commented on your post",
	models.NotificationFollow:  "%s started following you",
}

// Action describes the engagement that triggers a notification.
type Action struct {
	Kind        models.NotificationKind
	ActorID     string
	RecipientID string
	PostID      string
	CommentID   string
	// ActionKey identifies the triggering row; see LikeKey, CommentKey
	// and FollowKey.
	ActionKey string
}

func LikeKey(likeID string) string       { return "like:" + likeID }
func CommentKey(commentID string) string { return "comment:" + commentID }
func FollowKey(followID string) string   { return "follow:" + followID }

// Sink receives every notification after it has been stored.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n *models.Notification) error
}

// Emitter records notifications for engagement actions. It never returns
// an error: the engagement it reports on has already been committed.
type Emitter struct {
	users         repository.UserRepository
	notifications repository.NotificationRepository
	sinks         []Sink
	timeout       time.Duration
}

// NewEmitter creates an emitter. A non-positive timeout uses
// DefaultEmitTimeout.
func NewEmitter(users repository.UserRepository, notifications repository.NotificationRepository, timeout time.Duration, sinks ...Sink) *Emitter {
	if timeout <= 0 {
		timeout = DefaultEmitTimeout
	}
	return &Emitter{
		users:         users,
		notifications: notifications,
		sinks:         sinks,
		timeout:       timeout,
	}
}

// Emit stores a notification for a. It returns the stored notification, or
// nil when nothing new was stored (self-action, duplicate or failure).
//
// The attempt runs on a context detached from ctx's cancellation so a
// client disconnect after the write does not drop the notification.
func (e *Emitter) Emit(ctx context.Context, a Action) *models.Notification {
	if a.ActorID == a.RecipientID {
		metrics.RecordNotification(string(a.Kind), "skipped_self")
		return nil
	}

	tmpl, ok := templates[a.Kind]
	if !ok || a.ActionKey == "" || a.RecipientID == "" {
		metrics.RecordNotification(string(a.Kind), "invalid")
		logger.Log.Warn("Dropping malformed notification action",
			zap.String("kind", string(a.Kind)),
			logger.WithActorID(a.ActorID),
			logger.WithTargetID(a.RecipientID),
		)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	ctx, span := telemetry.TraceNotification(ctx, string(a.Kind), a.RecipientID)

	n := &models.Notification{
		RecipientID: a.RecipientID,
		ActorID:     a.ActorID,
		Kind:        a.Kind,
		PostID:      optional(a.PostID),
		CommentID:   optional(a.CommentID),
		Message:     fmt.Sprintf(tmpl, e.actorLabel(ctx, a.ActorID)),
		ActionKey:   a.ActionKey,
	}

	created, err := e.notifications.Create(ctx, n)
	telemetry.End(span, err)
	if err != nil {
		metrics.RecordNotification(string(a.Kind), "failed")
		logger.WarnWithFields("Failed to store notification", err,
			zap.String("kind", string(a.Kind)),
			zap.String("action_key", a.ActionKey),
			logger.WithActorID(a.ActorID),
			logger.WithTargetID(a.RecipientID),
		)
		return nil
	}
	if !created {
		metrics.RecordNotification(string(a.Kind), "duplicate")
		return nil
	}
	metrics.RecordNotification(string(a.Kind), "created")

	for _, sink := range e.sinks {
		if err := sink.Deliver(ctx, n); err != nil {
			logger.WarnWithFields("Notification sink failed", err,
				zap.String("sink", sink.Name()),
				zap.String("notification_id", n.ID),
			)
		}
	}
	return n
}

func (e *Emitter) actorLabel(ctx context.Context, actorID string) string {
	actor, err := e.users.GetUser(ctx, actorID)
	if err != nil {
		logger.WarnWithFields("Failed to load notification actor", err, logger.WithActorID(actorID))
		return actorID
	}
	return actor.Label()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
