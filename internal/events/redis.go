package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// channelPublisher is the slice of cache.RedisClient this package needs.
type channelPublisher interface {
	Publish(ctx context.Context, channel string, message []byte) error
}

// RedisPublisher sends events over Redis PUBLISH. Subscribers that are not
// connected miss the event.
type RedisPublisher struct {
	client  channelPublisher
	channel string
}

func NewRedisPublisher(client channelPublisher, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.client.Publish(ctx, p.channel, data)
}

func (p *RedisPublisher) Backend() string { return "redis" }

// Close is a no-op; the Redis client is owned by the caller.
func (p *RedisPublisher) Close() error { return nil }
