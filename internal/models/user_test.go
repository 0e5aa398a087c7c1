package models

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNowIsStrictlyIncreasing(t *testing.T) {
	prev := Now()
	for i := 0; i < 1000; i++ {
		next := Now()
		require.True(t, next.After(prev), "call %d: %s not after %s", i, next, prev)
		assert.Equal(t, time.UTC, next.Location())
		assert.Zero(t, next.Nanosecond()%int(time.Microsecond))
		prev = next
	}
}

func TestNowIsUniqueAcrossGoroutines(t *testing.T) {
	const n = 200
	stamps := make(chan time.Time, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stamps <- Now()
		}()
	}
	wg.Wait()
	close(stamps)

	seen := make(map[time.Time]bool, n)
	for ts := range stamps {
		assert.False(t, seen[ts], "duplicate timestamp %s", ts)
		seen[ts] = true
	}
	assert.Len(t, seen, n)
}
