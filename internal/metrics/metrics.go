package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Feed
	FeedGenerationDuration *prometheus.HistogramVec
	FeedCacheHitsTotal     *prometheus.CounterVec
	FeedCacheMissesTotal   *prometheus.CounterVec
	FeedCacheErrorsTotal   *prometheus.CounterVec

	// Engagement
	EngagementActionsTotal *prometheus.CounterVec
	NotificationsTotal     *prometheus.CounterVec
	SinkDeliveriesTotal    *prometheus.CounterVec
	SinkQueueDepth         *prometheus.GaugeVec
	EventsPublishedTotal   *prometheus.CounterVec

	RateLimitExceededTotal *prometheus.CounterVec
	ErrorsTotal            *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics with the default
// registry. Safe to call more than once.
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),

			FeedGenerationDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_generation_duration_seconds",
					Help:    "Time to assemble one feed page, excluding cache hits",
					Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
				},
				[]string{"view"},
			),
			FeedCacheHitsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_cache_hits_total",
					Help: "Feed pages served from cache",
				},
				[]string{"view"},
			),
			FeedCacheMissesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_cache_misses_total",
					Help: "Feed pages assembled from the database",
				},
				[]string{"view"},
			),
			FeedCacheErrorsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_cache_errors_total",
					Help: "Feed cache operations that failed",
				},
				[]string{"operation"},
			),

			EngagementActionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "engagement_actions_total",
					Help: "Engagement actions by outcome",
				},
				[]string{"action", "result"},
			),
			NotificationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "notification_emit_total",
					Help: "Notification emission attempts by outcome",
				},
				[]string{"kind", "result"},
			),
			SinkDeliveriesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "notification_sink_deliveries_total",
					Help: "Notification deliveries to external sinks by outcome",
				},
				[]string{"sink", "result"},
			),
			SinkQueueDepth: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "notification_sink_queue_depth",
					Help: "Notifications waiting for delivery to an external sink",
				},
				[]string{"sink"},
			),
			EventsPublishedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "engagement_events_published_total",
					Help: "Domain events handed to the event backend",
				},
				[]string{"backend", "result"},
			),

			RateLimitExceededTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "rate_limit_exceeded_total",
					Help: "Total number of rate limit violations",
				},
				[]string{"path"},
			),
			ErrorsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Errors returned to clients by kind",
				},
				[]string{"kind", "code"},
			),
		}
	})
	return instance
}

// Get returns the metrics instance, initializing it on first use
func Get() *Metrics {
	return Initialize()
}

// RecordEngagement counts one engagement action. result is "ok" or the
// error kind.
func RecordEngagement(action, result string) {
	Get().EngagementActionsTotal.WithLabelValues(action, result).Inc()
}

func RecordNotification(kind, result string) {
	Get().NotificationsTotal.WithLabelValues(kind, result).Inc()
}

func RecordSinkDelivery(sink, result string) {
	Get().SinkDeliveriesTotal.WithLabelValues(sink, result).Inc()
}

func SetSinkQueueDepth(sink string, depth int) {
	Get().SinkQueueDepth.WithLabelValues(sink).Set(float64(depth))
}

func RecordEventPublished(backend, result string) {
	Get().EventsPublishedTotal.WithLabelValues(backend, result).Inc()
}

func RecordFeedCacheHit(view string) {
	Get().FeedCacheHitsTotal.WithLabelValues(view).Inc()
}

func RecordFeedCacheMiss(view string) {
	Get().FeedCacheMissesTotal.WithLabelValues(view).Inc()
}

func RecordFeedCacheError(operation string) {
	Get().FeedCacheErrorsTotal.WithLabelValues(operation).Inc()
}

func ObserveFeedGeneration(view string, seconds float64) {
	Get().FeedGenerationDuration.WithLabelValues(view).Observe(seconds)
}

func RecordError(kind, code string) {
	Get().ErrorsTotal.WithLabelValues(kind, code).Inc()
}
