// Package container wires the timeline, engagement and notification
// services from configuration and owns their shutdown order.
package container

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/roozanaryal/TwitterClone-sub000/internal/auth"
	"github.com/roozanaryal/TwitterClone-sub000/internal/cache"
	"github.com/roozanaryal/TwitterClone-sub000/internal/config"
	"github.com/roozanaryal/TwitterClone-sub000/internal/engagement"
	"github.com/roozanaryal/TwitterClone-sub000/internal/events"
	"github.com/roozanaryal/TwitterClone-sub000/internal/logger"
	"github.com/roozanaryal/TwitterClone-sub000/internal/notifications"
	"github.com/roozanaryal/TwitterClone-sub000/internal/queue"
	"github.com/roozanaryal/TwitterClone-sub000/internal/repository"
	"github.com/roozanaryal/TwitterClone-sub000/internal/stream"
	"github.com/roozanaryal/TwitterClone-sub000/internal/timeline"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container holds the application's services. Build fills it; Cleanup
// releases what Build opened.
type Container struct {
	// Core infrastructure
	db        *gorm.DB
	redis     *cache.RedisClient
	feeds     cache.FeedCache
	publisher events.Publisher
	store     *repository.Store

	// Services
	engagement *engagement.Service
	timeline   *timeline.Assembler
	inbox      *notifications.Inbox
	resolver   auth.IdentityResolver

	// Lifecycle hooks
	cleanupFuncs []func(context.Context) error
	mu           sync.RWMutex
}

// Build connects the optional backends named in cfg and constructs every
// service over db. On error, anything already opened is closed.
func Build(ctx context.Context, cfg *config.Config, db *gorm.DB) (_ *Container, err error) {
	c := &Container{db: db, store: repository.NewStore(db)}
	defer func() {
		if err != nil {
			_ = c.Cleanup(ctx)
		}
	}()

	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		c.redis = rc
		c.OnCleanup(func(context.Context) error { return rc.Close() })
	}

	c.feeds = cache.NoopFeedCache{}
	if cfg.Cache.Enabled && c.redis != nil {
		c.feeds = cache.NewRedisFeedCache(c.redis, cfg.Cache.FeedTTL)
	}

	c.publisher, err = newPublisher(cfg.Events, c.redis)
	if err != nil {
		return nil, err
	}
	publisher := c.publisher
	c.OnCleanup(func(context.Context) error { return publisher.Close() })

	var sinks []notifications.Sink
	if cfg.Stream.Enabled {
		mirror, err := stream.NewNotificationMirror(cfg.Stream)
		if err != nil {
			return nil, err
		}
		deliveries := queue.NewDeliveryQueue(mirror, cfg.Stream.DeliveryWorkers, cfg.Stream.DeliveryBuffer, 5*time.Second)
		deliveries.Start()
		c.OnCleanup(deliveries.Stop)
		sinks = append(sinks, deliveries)
	}
	emitter := notifications.NewEmitter(c.store.Users, c.store.Notifications, cfg.Notifications.EmitTimeout, sinks...)

	c.engagement = engagement.NewService(c.store, c.feeds, emitter, c.publisher)
	c.timeline = timeline.NewAssembler(c.store, c.feeds)
	c.inbox = notifications.NewInbox(c.store.Notifications)

	if cfg.Auth.JWTSecret != "" {
		c.resolver = auth.NewJWTResolver(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	} else {
		logger.Log.Warn("No JWT secret configured, trusting the " + auth.UserIDHeader + " header")
		c.resolver = auth.HeaderResolver{}
	}

	logger.Log.Info("Container built",
		zap.Bool("redis", c.redis != nil),
		zap.Bool("feed_cache", cfg.Cache.Enabled && c.redis != nil),
		zap.String("events", c.publisher.Backend()),
		zap.Int("notification_sinks", len(sinks)),
	)
	return c, c.Validate()
}

func newPublisher(cfg config.EventsConfig, rc *cache.RedisClient) (events.Publisher, error) {
	switch cfg.Backend {
	case "", "none":
		return events.NoopPublisher{}, nil
	case "redis":
		if rc == nil {
			return nil, fmt.Errorf("events backend redis needs a redis connection")
		}
		return events.NewRedisPublisher(rc, cfg.RedisChannel), nil
	case "kafka":
		return events.NewKafkaPublisher(strings.Split(cfg.Brokers, ","), cfg.Topic, cfg.Partitions)
	default:
		return nil, fmt.Errorf("unsupported events backend %q", cfg.Backend)
	}
}

// DB returns the database connection
func (c *Container) DB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// Redis returns the Redis client, or nil when Redis is disabled.
func (c *Container) Redis() *cache.RedisClient {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.redis
}

func (c *Container) Store() *repository.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store
}

func (c *Container) Engagement() *engagement.Service {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engagement
}

func (c *Container) Timeline() *timeline.Assembler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timeline
}

func (c *Container) Inbox() *notifications.Inbox {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inbox
}

func (c *Container) Resolver() auth.IdentityResolver {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolver
}

func (c *Container) Publisher() events.Publisher {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.publisher
}

// OnCleanup registers a cleanup function to be called during shutdown.
// Cleanup functions are called in LIFO order.
func (c *Container) OnCleanup(fn func(context.Context) error) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupFuncs = append(c.cleanupFuncs, fn)
	return c
}

// Cleanup runs every registered cleanup function, last registered first,
// and returns all of their errors combined.
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	funcs := c.cleanupFuncs
	c.cleanupFuncs = nil
	c.mu.Unlock()

	var result *multierror.Error
	for i := len(funcs) - 1; i >= 0; i-- {
		if err := funcs[i](ctx); err != nil {
			logger.ErrorWithFields("Cleanup function failed", err, zap.Int("index", i))
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Validate checks that all required dependencies are registered.
func (c *Container) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var missing []string
	if c.db == nil {
		missing = append(missing, "database")
	}
	if c.engagement == nil {
		missing = append(missing, "engagement service")
	}
	if c.timeline == nil {
		missing = append(missing, "timeline assembler")
	}
	if c.inbox == nil {
		missing = append(missing, "notification inbox")
	}
	if c.resolver == nil {
		missing = append(missing, "identity resolver")
	}

	if len(missing) > 0 {
		return NewInitializationError("Missing required dependencies", missing)
	}
	return nil
}
