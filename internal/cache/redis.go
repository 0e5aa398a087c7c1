package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/roozanaryal/TwitterClone-sub000/internal/config"
	"github.com/roozanaryal/TwitterClone-sub000/internal/logger"
	"go.uber.org/zap"
)

// RedisClient wraps redis.Client with the operations the feed cache, rate
// limiter and event publisher need.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects with pooled connections and verifies the server
// answers a PING.
func NewRedisClient(cfg config.RedisConfig) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 5,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.ErrorWithFields("Failed to connect to Redis", err, zap.String("address", cfg.Addr()))
		_ = client.Close()
		return nil, err
	}

	logger.Log.Info("Redis client connected", zap.String("address", cfg.Addr()))
	return &RedisClient{client: client}, nil
}

// NewRedisClientFrom wraps an existing client.
func NewRedisClientFrom(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

// Client exposes the underlying client for pub/sub.
func (rc *RedisClient) Client() *redis.Client {
	return rc.client
}

// Close closes the Redis connection gracefully
func (rc *RedisClient) Close() error {
	if rc == nil || rc.client == nil {
		return nil
	}
	return rc.client.Close()
}

func (rc *RedisClient) Ping(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// GetBytes returns the value at key; found is false on a miss.
func (rc *RedisClient) GetBytes(ctx context.Context, key string) (value []byte, found bool, err error) {
	value, err = rc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (rc *RedisClient) SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return rc.client.Set(ctx, key, value, ttl).Err()
}

func (rc *RedisClient) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return rc.client.Del(ctx, keys...).Err()
}

// DelPattern deletes every key matching pattern using SCAN, so large
// keyspaces are not blocked the way KEYS would block them.
func (rc *RedisClient) DelPattern(ctx context.Context, pattern string) (int, error) {
	deleted := 0
	batch := make([]string, 0, 100)

	iter := rc.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := rc.Del(ctx, batch...); err != nil {
				return deleted, err
			}
			deleted += len(batch)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, err
	}
	if err := rc.Del(ctx, batch...); err != nil {
		return deleted, err
	}
	return deleted + len(batch), nil
}

// IncrWindow increments key and starts its expiry on the first hit of a
// fixed window. It returns the count within the window.
func (rc *RedisClient) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := rc.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (rc *RedisClient) Publish(ctx context.Context, channel string, payload []byte) error {
	return rc.client.Publish(ctx, channel, payload).Err()
}
