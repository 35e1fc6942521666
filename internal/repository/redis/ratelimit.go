package redisrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	redisx "github.com/kirinyoku/fringe/internal/redis"
	"github.com/redis/go-redis/v9"
)

// luaSlidingWindow counts accepted hits in a sorted set scored by time.
// Rejected hits are removed again so a blocked session is not pushed further
// out by retrying.
// KEYS[1] = key
// ARGV[1] = now_ms
// ARGV[2] = window_ms
// ARGV[3] = limit
// ARGV[4] = member
const luaSlidingWindow = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
redis.call('ZADD', key, 'NX', now, ARGV[4])
local count = redis.call('ZCARD', key)
redis.call('PEXPIRE', key, window)

if count <= limit then
  return {1, count, 0}
end

redis.call('ZREM', key, ARGV[4])
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local retry = window
if oldest[2] then
  retry = window - (now - tonumber(oldest[2]))
end
if retry < 0 then retry = 0 end
return {0, count - 1, retry}
`

// SlidingWindowLimiter caps how often one visitor session may submit a
// booking. A zero limit disables it.
type SlidingWindowLimiter struct {
	rdb    *redis.Client
	action string
	limit  int
	window time.Duration
	script *redis.Script
	now    func() time.Time
}

// NewSlidingWindowLimiter allows limit hits per window for each id passed to
// Allow. action names the limited operation and scopes its keys.
func NewSlidingWindowLimiter(
	rdb *redis.Client,
	action string,
	limit int,
	window time.Duration,
) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		rdb:    rdb,
		action: action,
		limit:  limit,
		window: window,
		script: redis.NewScript(luaSlidingWindow),
		now:    time.Now,
	}
}

// Allow records a hit for id.
//
// Returns:
//   - allowed: false once id used up its hits in the current window.
//   - current: accepted hits in the window, this one included when allowed.
//   - retryAfter: time until the oldest hit leaves the window when rejected.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, id string) (allowed bool, current int64, retryAfter time.Duration, err error) {
	const op = "redisrepo.SlidingWindowLimiter.Allow"

	if l.limit <= 0 {
		return true, 0, 0, nil
	}

	vals, err := l.script.Run(
		ctx,
		l.rdb,
		[]string{redisx.KeyRateLimit(l.action, id)},
		l.now().UnixMilli(), l.window.Milliseconds(), l.limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return false, 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(vals) != 3 {
		return false, 0, 0, fmt.Errorf("%s: unexpected script result %v", op, vals)
	}

	return vals[0] == 1, vals[1], time.Duration(vals[2]) * time.Millisecond, nil
}
