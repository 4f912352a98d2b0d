package ratelimit

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

// Store keeps one fixed-window counter per key. Hit increments the counter
// for key, starting a new window of the given length when none is active,
// and returns the count inside the current window and when it ends.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
}

type Policy struct {
	MaxRequests int64
	Window      time.Duration
}

type Result struct {
	Success   bool
	Remaining int64
	ResetAt   time.Time
}

// RetryAfter is the whole number of seconds a rejected caller should wait,
// never below one second and never above the policy window.
func (r Result) RetryAfter(now time.Time, window time.Duration) time.Duration {
	wait := r.ResetAt.Sub(now)
	seconds := time.Duration(math.Ceil(wait.Seconds())) * time.Second

	if seconds < time.Second {
		seconds = time.Second
	}

	if limit := window.Truncate(time.Second); limit >= time.Second && seconds > limit {
		seconds = limit
	}

	return seconds
}

type Limiter struct {
	store  Store
	prefix string
	policy Policy
	now    func() time.Time
}

func NewLimiter(store Store, prefix string, policy Policy) *Limiter {
	return &Limiter{
		store:  store,
		prefix: prefix,
		policy: policy,
		now:    time.Now,
	}
}

func (l *Limiter) Policy() Policy {
	return l.policy
}

// Check counts one request for identifier. A failing store lets the request
// through: the limiter deters abuse, it does not guard correctness.
func (l *Limiter) Check(ctx context.Context, identifier string) Result {
	key := l.prefix + identifier

	count, resetAt, err := l.store.Hit(ctx, key, l.policy.Window)
	if err != nil {
		zapLogger.Warn(ctx, "rate limit store unavailable, allowing request",
			zap.String("key", key),
			zap.Error(err),
		)

		return Result{
			Success:   true,
			Remaining: l.policy.MaxRequests,
			ResetAt:   l.now().Add(l.policy.Window),
		}
	}

	remaining := l.policy.MaxRequests - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Success:   count <= l.policy.MaxRequests,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}
