package bucket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"portal/internal/ratelimit/models"
)

// slidingWindowScript prunes, counts and conditionally records a request in
// one round trip. Scores are unix milliseconds. It returns
// {allowed, remaining, oldest score}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local oldest = now
local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if first[2] then
  oldest = tonumber(first[2])
end
if count < limit then
  redis.call('ZADD', key, now, ARGV[4])
  redis.call('PEXPIRE', key, window)
  return {1, limit - count - 1, oldest}
end
return {0, 0, oldest}
`)

// RedisBucketStore shares sliding windows across instances through sorted
// sets.
type RedisBucketStore struct {
	client *redis.Client
	clock  func() time.Time
}

func NewRedisBucketStore(client *redis.Client) *RedisBucketStore {
	return &RedisBucketStore{client: client, clock: time.Now}
}

func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error) {
	now := s.clock()
	res, err := slidingWindowScript.Run(ctx, s.client, []string{key},
		now.UnixMilli(), window.Milliseconds(), limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 3 {
		return nil, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}

	resetAt := time.UnixMilli(res[2]).Add(window)
	out := &models.Result{
		Allowed:   res[0] == 1,
		Limit:     limit,
		Remaining: int(res[1]),
		ResetAt:   resetAt,
	}
	if !out.Allowed {
		out.RetryAfter = retryAfter(now, resetAt)
	}
	return out, nil
}

func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
