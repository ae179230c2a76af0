package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// reserveSlot claims the next start time max(now, last+interval) and returns
// how long the caller must wait for it, in milliseconds. Server time keeps
// replicas with skewed clocks consistent.
var reserveSlot = redis.NewScript(`
local interval = tonumber(ARGV[1])
local t = redis.call('TIME')
local now = tonumber(t[1]) * 1000 + math.floor(tonumber(t[2]) / 1000)
local last = tonumber(redis.call('GET', KEYS[1]) or '0')
local slot = now
if last + interval > now then
  slot = last + interval
end
redis.call('SET', KEYS[1], slot, 'PX', (slot - now) + interval + 1000)
return slot - now
`)

// RedisLimiter spaces calls across every replica sharing the key.
type RedisLimiter struct {
	client   redis.UniversalClient
	key      string
	interval time.Duration
}

func NewRedisLimiter(client redis.UniversalClient, key string, interval time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, key: key, interval: interval}
}

func (l *RedisLimiter) Wait(ctx context.Context) error {
	if l.interval <= 0 {
		return nil
	}

	waitMS, err := reserveSlot.Run(ctx, l.client, []string{l.key}, l.interval.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("reserve rate limit slot: %w", err)
	}
	if waitMS <= 0 {
		return nil
	}

	timer := time.NewTimer(time.Duration(waitMS) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
