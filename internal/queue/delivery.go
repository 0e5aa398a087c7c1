// Package queue runs notification deliveries to external sinks on a
// background worker pool.
package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/roozanaryal/TwitterClone-sub000/internal/logger"
	"github.com/roozanaryal/TwitterClone-sub000/internal/metrics"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"go.uber.org/zap"
)

var (
	ErrQueueFull    = errors.New("delivery queue is full")
	ErrQueueStopped = errors.New("delivery queue is stopped")
)

// Sink delivers one notification somewhere outside the database.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n *models.Notification) error
}

// DeliveryQueue wraps a Sink so Deliver only enqueues. Workers call the
// wrapped sink with their own timeout. A full queue drops the notification;
// it stays readable through the inbox either way.
type DeliveryQueue struct {
	sink    Sink
	jobs    chan *models.Notification
	workers int
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	stopped bool

	// For testing: receives the id of every finished delivery
	completed chan string
}

// NewDeliveryQueue creates a queue for sink. Call Start before use.
func NewDeliveryQueue(sink Sink, workers, buffer int, timeout time.Duration) *DeliveryQueue {
	if workers <= 0 {
		workers = 1
	}
	if buffer <= 0 {
		buffer = 100
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &DeliveryQueue{
		sink:    sink,
		jobs:    make(chan *models.Notification, buffer),
		workers: workers,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins processing deliveries with the worker pool
func (q *DeliveryQueue) Start() {
	logger.Log.Info("Starting delivery queue",
		zap.String("sink", q.sink.Name()),
		zap.Int("workers", q.workers),
		zap.Int("buffer", cap(q.jobs)),
	)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
}

func (q *DeliveryQueue) Name() string { return q.sink.Name() }

// Deliver enqueues n without waiting for the sink.
func (q *DeliveryQueue) Deliver(_ context.Context, n *models.Notification) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.stopped {
		return ErrQueueStopped
	}

	select {
	case q.jobs <- n:
		metrics.SetSinkQueueDepth(q.sink.Name(), len(q.jobs))
		return nil
	default:
		metrics.RecordSinkDelivery(q.sink.Name(), "dropped")
		return ErrQueueFull
	}
}

// Stop stops accepting deliveries and waits for queued ones to finish.
// When ctx ends first, in-flight deliveries are cancelled.
func (q *DeliveryQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.stopped {
		q.stopped = true
		close(q.jobs)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		<-done
		return ctx.Err()
	}
}

func (q *DeliveryQueue) worker(workerID int) {
	defer q.wg.Done()
	for n := range q.jobs {
		metrics.SetSinkQueueDepth(q.sink.Name(), len(q.jobs))
		q.process(workerID, n)
	}
}

func (q *DeliveryQueue) process(workerID int, n *models.Notification) {
	ctx, cancel := context.WithTimeout(q.ctx, q.timeout)
	defer cancel()

	start := time.Now()
	err := q.sink.Deliver(ctx, n)
	if err != nil {
		metrics.RecordSinkDelivery(q.sink.Name(), "failed")
		logger.WarnWithFields("Notification sink delivery failed", err,
			zap.String("sink", q.sink.Name()),
			zap.Int("worker_id", workerID),
			zap.String("notification_id", n.ID),
			logger.WithUserID(n.RecipientID),
		)
	} else {
		metrics.RecordSinkDelivery(q.sink.Name(), "delivered")
		logger.Log.Debug("Notification delivered",
			zap.String("sink", q.sink.Name()),
			zap.String("notification_id", n.ID),
			logger.WithDuration(time.Since(start)),
		)
	}

	if q.completed != nil {
		q.completed <- n.ID
	}
}
