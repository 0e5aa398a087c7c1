package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu        sync.Mutex
	delivered []string
	err       error
	block     chan struct{}
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Deliver(ctx context.Context, n *models.Notification) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.delivered = append(s.delivered, n.ID)
	return nil
}

func (s *recordingSink) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.delivered...)
}

func waitFor(t *testing.T, q *DeliveryQueue, n int) {
	t.Helper()
	timer := time.NewTimer(2 * time.Second)
	defer timer.Stop()
	for i := 0; i < n; i++ {
		select {
		case <-q.completed:
		case <-timer.C:
			t.Fatalf("timeout waiting for delivery %d of %d", i+1, n)
		}
	}
}

func TestDeliveryQueueDelivers(t *testing.T) {
	sink := &recordingSink{}
	q := NewDeliveryQueue(sink, 2, 10, time.Second)
	q.completed = make(chan string, 10)
	q.Start()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Deliver(context.Background(), &models.Notification{ID: fmt.Sprintf("n%d", i)}))
	}
	waitFor(t, q, 5)

	assert.ElementsMatch(t, []string{"n0", "n1", "n2", "n3", "n4"}, sink.ids())
	assert.Equal(t, "recording", q.Name())
	require.NoError(t, q.Stop(context.Background()))
}

func TestDeliveryQueueFull(t *testing.T) {
	sink := &recordingSink{}
	q := NewDeliveryQueue(sink, 1, 1, time.Second)

	// Not started, so the single slot stays occupied.
	require.NoError(t, q.Deliver(context.Background(), &models.Notification{ID: "a"}))
	assert.ErrorIs(t, q.Deliver(context.Background(), &models.Notification{ID: "b"}), ErrQueueFull)
}

func TestDeliveryQueueSinkFailureDoesNotStopWorkers(t *testing.T) {
	sink := &recordingSink{err: errors.New("stream unavailable")}
	q := NewDeliveryQueue(sink, 1, 10, time.Second)
	q.completed = make(chan string, 10)
	q.Start()

	require.NoError(t, q.Deliver(context.Background(), &models.Notification{ID: "a"}))
	waitFor(t, q, 1)

	sink.mu.Lock()
	sink.err = nil
	sink.mu.Unlock()

	require.NoError(t, q.Deliver(context.Background(), &models.Notification{ID: "b"}))
	waitFor(t, q, 1)
	assert.Equal(t, []string{"b"}, sink.ids())
	require.NoError(t, q.Stop(context.Background()))
}

func TestDeliveryQueueStopDrains(t *testing.T) {
	sink := &recordingSink{}
	q := NewDeliveryQueue(sink, 1, 10, time.Second)
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Deliver(context.Background(), &models.Notification{ID: fmt.Sprintf("n%d", i)}))
	}
	q.Start()

	require.NoError(t, q.Stop(context.Background()))
	assert.Len(t, sink.ids(), 3)
	assert.ErrorIs(t, q.Deliver(context.Background(), &models.Notification{ID: "late"}), ErrQueueStopped)
	assert.NoError(t, q.Stop(context.Background()), "second stop is a no-op")
}

func TestDeliveryQueueStopDeadlineCancelsInFlight(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	q := NewDeliveryQueue(sink, 1, 10, time.Minute)
	q.Start()
	require.NoError(t, q.Deliver(context.Background(), &models.Notification{ID: "stuck"}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Stop(ctx), context.DeadlineExceeded)
	assert.Empty(t, sink.ids())
}
