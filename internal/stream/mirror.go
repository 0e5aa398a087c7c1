// Package stream mirrors persisted notifications into Stream.io
// notification feeds so clients using the Stream SDK see the same events
// that the polling API serves.
package stream

import (
	"context"
	"fmt"
	"time"

	stream "github.com/GetStream/stream-go2/v8"
	"github.com/roozanaryal/TwitterClone-sub000/internal/config"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"github.com/roozanaryal/TwitterClone-sub000/internal/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// activityAdder is the part of a Stream feed the mirror writes to.
type activityAdder interface {
	AddActivity(ctx context.Context, activity stream.Activity) (*stream.AddActivityResponse, error)
}

// NotificationMirror copies each new notification into the recipient's
// Stream notification feed.
type NotificationMirror struct {
	feed func(recipientID string) (activityAdder, error)
}

// NewNotificationMirror creates a mirror from the stream config section.
// Calls to Stream are traced through the global tracer provider.
func NewNotificationMirror(cfg config.StreamConfig) (*NotificationMirror, error) {
	return newNotificationMirror(cfg, nil)
}

func newNotificationMirror(cfg config.StreamConfig, tp trace.TracerProvider, opts ...stream.ClientOption) (*NotificationMirror, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("stream api key and secret must be set")
	}

	httpClient := telemetry.NewInstrumentedHTTPClient(telemetry.HTTPClientConfig{
		ServiceName:    "stream.io",
		Timeout:        10 * time.Second,
		TracerProvider: tp,
	})
	opts = append([]stream.ClientOption{stream.WithHTTPRequester(httpClient)}, opts...)

	client, err := stream.New(cfg.APIKey, cfg.APISecret, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Stream.io Feeds client: %w", err)
	}

	slug := cfg.NotificationFeed
	return &NotificationMirror{
		feed: func(recipientID string) (activityAdder, error) {
			return client.NotificationFeed(slug, recipientID)
		},
	}, nil
}

func (m *NotificationMirror) Name() string { return "stream" }

// Deliver adds n to the recipient's notification feed. The notification id
// is the foreign id, so Stream drops a repeated delivery.
func (m *NotificationMirror) Deliver(ctx context.Context, n *models.Notification) error {
	feed, err := m.feed(n.RecipientID)
	if err != nil {
		return fmt.Errorf("failed to get notification feed: %w", err)
	}

	if _, err := feed.AddActivity(ctx, toActivity(n)); err != nil {
		return fmt.Errorf("failed to add notification activity: %w", err)
	}
	return nil
}

func toActivity(n *models.Notification) stream.Activity {
	object := "user:" + n.RecipientID
	if n.PostID != nil {
		object = "post:" + *n.PostID
	}

	extra := map[string]any{
		"message": n.Message,
	}
	if n.CommentID != nil {
		extra["comment_id"] = *n.CommentID
	}

	return stream.Activity{
		Actor:     "user:" + n.ActorID,
		Verb:      string(n.Kind),
		Object:    object,
		ForeignID: "notification:" + n.ID,
		Extra:     extra,
	}
}
