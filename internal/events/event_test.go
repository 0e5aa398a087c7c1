package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingChannel struct {
	channel  string
	messages [][]byte
}

func (r *recordingChannel) Publish(_ context.Context, channel string, message []byte) error {
	r.channel = channel
	r.messages = append(r.messages, message)
	return nil
}

func TestNewEvent(t *testing.T) {
	ev, err := NewEvent(LikeCreated, "alice", "post-1", map[string]string{"ownerId": "bob"})
	require.NoError(t, err)

	assert.Equal(t, LikeCreated, ev.Type)
	assert.Equal(t, "alice", ev.ActorID)
	assert.Equal(t, "post-1", ev.Subject)
	assert.False(t, ev.Timestamp.IsZero())

	var payload map[string]string
	require.NoError(t, ev.UnmarshalPayload(&payload))
	assert.Equal(t, "bob", payload["ownerId"])
}

func TestNewEventWithoutPayload(t *testing.T) {
	ev, err := NewEvent(FollowDeleted, "alice", "bob", nil)
	require.NoError(t, err)

	data, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "payload")
}

func TestNewEventRejectsUnencodablePayload(t *testing.T) {
	_, err := NewEvent(PostCreated, "alice", "post-1", make(chan int))
	assert.Error(t, err)
}

func TestRedisPublisher(t *testing.T) {
	rec := &recordingChannel{}
	p := NewRedisPublisher(rec, "engagement")

	ev, err := NewEvent(CommentCreated, "alice", "post-1", nil)
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), ev))

	assert.Equal(t, "engagement", rec.channel)
	require.Len(t, rec.messages, 1)

	var decoded Event
	require.NoError(t, json.Unmarshal(rec.messages[0], &decoded))
	assert.Equal(t, CommentCreated, decoded.Type)
	assert.Equal(t, "redis", p.Backend())
	assert.NoError(t, p.Close())
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), &Event{}))
	assert.Equal(t, "none", p.Backend())
	assert.NoError(t, p.Close())
}
