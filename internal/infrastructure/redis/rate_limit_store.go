package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// INCR and PEXPIRE run in one script so a crash between them cannot leave a
// counter without a TTL.
var hitScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RateLimitStore shares fixed-window counters between service instances.
type RateLimitStore struct {
	client goredis.Scripter
	now    func() time.Time
}

func NewRateLimitStore(client goredis.Scripter) *RateLimitStore {
	return &RateLimitStore{
		client: client,
		now:    time.Now,
	}
}

func (s *RateLimitStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	const op = "RateLimitStore.Hit"

	values, err := hitScript.Run(ctx, s.client, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	if len(values) != 2 {
		return 0, time.Time{}, fmt.Errorf("%s: unexpected script reply %v", op, values)
	}

	count, ttl := values[0], time.Duration(values[1])*time.Millisecond

	return count, s.now().Add(ttl), nil
}
