package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key prefix for blacklisted token ids
const revokedTokenKeyPrefix = "bl:jti:"

// RedisBlacklist is the shared blacklist for multi-instance deployments.
// Entries expire with the token they revoke.
type RedisBlacklist struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

// Revoke blacklists jti until ttl elapses.
func (b *RedisBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	return b.client.Set(ctx, revokedTokenKeyPrefix+jti, "1", ttl).Err()
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	_, err := b.client.Get(ctx, revokedTokenKeyPrefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
