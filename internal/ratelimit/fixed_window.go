// Package ratelimit throttles login and registration attempts. Counters live
// in Redis so all API instances draw from one quota per client.
package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "employees:ratelimit"

// incrWithTTL bumps a window counter and starts its expiry on first use.
var incrWithTTL = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// Options configures an AttemptLimiter.
type Options struct {
	Addr     string
	Password string
	Prefix   string
	// Limit is the number of attempts admitted per key in each window.
	Limit  int
	Window time.Duration
}

// AttemptLimiter admits Limit attempts per key in each clock-aligned window.
type AttemptLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewAttemptLimiter(opts Options) (*AttemptLimiter, error) {
	if opts.Limit <= 0 || opts.Window < time.Millisecond {
		return nil, errors.New("ratelimit: limit and window must be positive")
	}
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, errors.New("ratelimit: redis address missing")
	}
	prefix := strings.TrimSpace(opts.Prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &AttemptLimiter{
		rdb:    redis.NewClient(&redis.Options{Addr: addr, Password: opts.Password}),
		prefix: prefix,
		limit:  int64(opts.Limit),
		window: opts.Window,
		now:    time.Now,
	}, nil
}

// Allow records one attempt for key. It is false once key is over the limit
// for the current window, and whenever Redis does not answer. A nil limiter
// admits everything.
func (l *AttemptLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	n, err := incrWithTTL.Run(ctx, l.rdb, []string{l.counterKey(key)}, l.window.Milliseconds()).Int64()
	return err == nil && n <= l.limit
}

// counterKey is prefix:key:window-index.
func (l *AttemptLimiter) counterKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		key = "anonymous"
	}
	slot := l.now().UnixMilli() / l.window.Milliseconds()
	return l.prefix + ":" + key + ":" + strconv.FormatInt(slot, 10)
}

func (l *AttemptLimiter) Close() error {
	if l == nil {
		return nil
	}
	return l.rdb.Close()
}
