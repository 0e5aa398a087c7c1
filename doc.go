// Package chirpline provides the timeline and engagement API for a short
// post social feed.
//
// The API documentation is organized into subpackages:
//
// - internal/timeline: Feed assembly for the global, following, own and bookmarks views
// - internal/engagement: Follow, like, bookmark, comment and post commands
// - internal/notifications: Notification emission and the polling inbox
// - internal/repository: Relationship and post storage on gorm
// - internal/cache: Redis feed page cache and rate limit counters
// - internal/events: Domain event publishing to Redis or Kafka
// - internal/stream: Stream.io notification feed mirror
// - internal/queue: Background delivery to external notification sinks
// - internal/handlers: HTTP request handlers for all API endpoints
// - internal/middleware: HTTP middleware (auth, rate limiting, tracing, etc.)
//
// Binaries live under cmd/: server, migrate, seed and cli.
package chirpline
