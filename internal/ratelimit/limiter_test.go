package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type failingStore struct{}

func (failingStore) Hit(context.Context, string, time.Duration) (int64, time.Time, error) {
	return 0, time.Time{}, errors.New("connection refused")
}

func TestLimiterCheck(t *testing.T) {
	zapLogger.SetNopLogger()

	clock := newFakeClock()
	store := NewMemoryStore(WithClock(clock.Now))
	policy := Policy{MaxRequests: 3, Window: time.Minute}
	limiter := NewLimiter(store, "order:create:", policy)

	ctx := context.Background()

	for i := int64(1); i <= policy.MaxRequests; i++ {
		result := limiter.Check(ctx, "203.0.113.7")
		require.True(t, result.Success, "request %d should pass", i)
		assert.Equal(t, policy.MaxRequests-i, result.Remaining)
		assert.Equal(t, clock.Now().Add(time.Minute), result.ResetAt)
	}

	rejected := limiter.Check(ctx, "203.0.113.7")
	assert.False(t, rejected.Success)
	assert.Equal(t, int64(0), rejected.Remaining)

	other := limiter.Check(ctx, "198.51.100.1")
	assert.True(t, other.Success, "identifiers are counted separately")

	clock.Advance(time.Minute)

	reset := limiter.Check(ctx, "203.0.113.7")
	assert.True(t, reset.Success, "window resets once resetAt passes")
	assert.Equal(t, policy.MaxRequests-1, reset.Remaining)
}

func TestLimiterFailsOpen(t *testing.T) {
	zapLogger.SetNopLogger()

	limiter := NewLimiter(failingStore{}, "contact:", Policy{MaxRequests: 5, Window: 10 * time.Minute})

	result := limiter.Check(context.Background(), "203.0.113.7")
	assert.True(t, result.Success)
	assert.Equal(t, int64(5), result.Remaining)
}

func TestResultRetryAfter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	window := time.Minute

	tests := []struct {
		name     string
		resetAt  time.Time
		expected time.Duration
	}{
		{name: "доли секунды округляются вверх", resetAt: now.Add(1500 * time.Millisecond), expected: 2 * time.Second},
		{name: "полное окно", resetAt: now.Add(time.Minute), expected: time.Minute},
		{name: "окно истекло - ждать секунду", resetAt: now.Add(-time.Second), expected: time.Second},
		{name: "ограничено длиной окна", resetAt: now.Add(5 * time.Minute), expected: time.Minute},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := Result{ResetAt: test.resetAt}
			retryAfter := result.RetryAfter(now, window)

			assert.Equal(t, test.expected, retryAfter)
			assert.Greater(t, retryAfter, time.Duration(0))
			assert.LessOrEqual(t, retryAfter, window)
		})
	}
}

func TestMemoryStoreSweepsExpiredEntries(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(WithClock(clock.Now), WithCleanupInterval(time.Minute))
	ctx := context.Background()

	_, _, err := store.Hit(ctx, "short", 10*time.Second)
	require.NoError(t, err)
	_, _, err = store.Hit(ctx, "long", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	clock.Advance(30 * time.Second)
	_, _, err = store.Hit(ctx, "long", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len(), "sweep waits for the cleanup interval")

	clock.Advance(31 * time.Second)
	count, _, err := store.Hit(ctx, "long", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Equal(t, 1, store.Len(), "expired key removed, live key kept")
}

func TestMemoryStoreCanceledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := store.Hit(ctx, "key", time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStoreConcurrentHits(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = store.Hit(ctx, "shared", time.Minute)
		}()
	}
	wg.Wait()

	count, _, err := store.Hit(ctx, "shared", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(51), count)
}
