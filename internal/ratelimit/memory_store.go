package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const defaultCleanupInterval = time.Minute

type entry struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is a process-local Store for single-instance deployments.
// Expired entries are swept on calls, at most once per cleanup interval.
type MemoryStore struct {
	mu              sync.Mutex
	entries         map[string]*entry
	cleanupInterval time.Duration
	lastCleanup     time.Time
	now             func() time.Time
}

type MemoryOption func(*MemoryStore)

func WithCleanupInterval(interval time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.cleanupInterval = interval
		}
	}
}

func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

func NewMemoryStore(options ...MemoryOption) *MemoryStore {
	store := &MemoryStore{
		entries:         make(map[string]*entry, 256),
		cleanupInterval: defaultCleanupInterval,
		now:             time.Now,
	}

	for _, option := range options {
		option(store)
	}

	store.lastCleanup = store.now()

	return store
}

func (s *MemoryStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	const op = "ratelimit.MemoryStore.Hit"

	select {
	case <-ctx.Done():
		return 0, time.Time{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	current, found := s.entries[key]
	if !found || !now.Before(current.resetAt) {
		current = &entry{count: 0, resetAt: now.Add(window)}
		s.entries[key] = current
	}

	current.count++

	return current.count, current.resetAt, nil
}

// Len reports how many keys are tracked.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return
	}

	for key, current := range s.entries {
		if !now.Before(current.resetAt) {
			delete(s.entries, key)
		}
	}

	s.lastCleanup = now
}
