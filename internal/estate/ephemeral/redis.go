package ephemeral

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript bumps a counter field, writes the companion fields and sets the
// expiry in one server-side step.
//
//	KEYS[1] hash key
//	ARGV[1] counter field, ARGV[2] ttl in ms, ARGV[3] hold threshold
//	ARGV[4..] field/value pairs
var incrScript = redis.NewScript(`
local prev = tonumber(redis.call('HGET', KEYS[1], ARGV[1]) or '0')
local n = redis.call('HINCRBY', KEYS[1], ARGV[1], 1)
for i = 4, #ARGV, 2 do
  redis.call('HSET', KEYS[1], ARGV[i], ARGV[i + 1])
end
local hold = tonumber(ARGV[3])
if hold == 0 or prev < hold or redis.call('PTTL', KEYS[1]) < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return n
`)

// Redis implements Store on a go-redis client.
type Redis struct {
	client *redis.Client
}

// Connect initializes a Redis client from URL or host:port input.
func Connect(ctx context.Context, redisURL string) (*Redis, error) {
	var opt *redis.Options
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opt = parsed
	} else {
		opt = &redis.Options{Addr: redisURL}
	}

	r := NewRedis(redis.NewClient(opt))
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.Ping(pingCtx); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return b, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return unavailable(r.client.Set(ctx, key, value, ttl).Err())
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return unavailable(r.client.Del(ctx, keys...).Err())
}

func (r *Redis) Incr(ctx context.Context, key string, u CounterUpdate) (int64, error) {
	args := make([]any, 0, 3+2*len(u.Set))
	args = append(args, u.Field, u.TTL.Milliseconds(), u.HoldAt)

	// Stable order keeps the script input deterministic.
	names := make([]string, 0, len(u.Set))
	for name := range u.Set {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		args = append(args, name, u.Set[name])
	}

	n, err := incrScript.Run(ctx, r.client, []string{key}, args...).Int64()
	if err != nil {
		return 0, unavailable(err)
	}
	return n, nil
}

func (r *Redis) Fields(ctx context.Context, key string) (map[string]string, time.Duration, error) {
	var (
		all *redis.MapStringStringCmd
		ttl *redis.DurationCmd
	)
	_, err := r.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		all = p.HGetAll(ctx, key)
		ttl = p.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return nil, 0, unavailable(err)
	}
	if len(all.Val()) == 0 {
		return nil, 0, ErrMiss
	}
	remaining := ttl.Val()
	if remaining < 0 {
		// No expiry set; callers treat this as no time left on the clock.
		remaining = 0
	}
	return all.Val(), remaining, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return unavailable(r.client.Ping(ctx).Err())
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
