package events

import (
	"context"
	"encoding/json"
	"time"
)

// Type names a domain event.
type Type string

const (
	FollowCreated   Type = "follow.created"
	FollowDeleted   Type = "follow.deleted"
	LikeCreated     Type = "like.created"
	LikeDeleted     Type = "like.deleted"
	BookmarkCreated Type = "bookmark.created"
	BookmarkDeleted Type = "bookmark.deleted"
	CommentCreated  Type = "comment.created"
	PostCreated     Type = "post.created"
)

// Event is one engagement fact handed to downstream consumers.
// Subject is the entity the event is about (a post or user id) and is used
// as the partition key.
type Event struct {
	Type      Type            `json:"type"`
	ActorID   string          `json:"actorId"`
	Subject   string          `json:"subject"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent creates a new event with the current timestamp. A nil payload is
// omitted.
func NewEvent(eventType Type, actorID, subject string, payload interface{}) (*Event, error) {
	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		data = raw
	}
	return &Event{
		Type:      eventType,
		ActorID:   actorID,
		Subject:   subject,
		Payload:   data,
		Timestamp: time.Now().UTC(),
	}, nil
}

// UnmarshalPayload unmarshals the event payload into v.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// Publisher hands events to the configured backend. Publish may return
// before the event is delivered.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Backend() string
	Close() error
}

// NoopPublisher drops every event. Used when events.backend is "none".
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *Event) error { return nil }
func (NoopPublisher) Backend() string                       { return "none" }
func (NoopPublisher) Close() error                          { return nil }
