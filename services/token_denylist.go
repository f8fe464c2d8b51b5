package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "auth:revoked:"

// TokenDenylist records logged-out session tokens until they expire.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisTokenDenylist keeps one key per revoked token id, expiring with the
// token itself.
type RedisTokenDenylist struct {
	rdb *redis.Client
}

// NewTokenDenylist returns a Redis-backed denylist, or a no-op one when rdb is
// nil.
func NewTokenDenylist(rdb *redis.Client) TokenDenylist {
	if rdb == nil {
		return noopDenylist{}
	}
	return &RedisTokenDenylist{rdb: rdb}
}

func (d *RedisTokenDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, denylistPrefix+tokenID, "1", ttl).Err()
}

func (d *RedisTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := d.rdb.Exists(ctx, denylistPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type noopDenylist struct{}

func (noopDenylist) Revoke(context.Context, string, time.Time) error { return nil }
func (noopDenylist) IsRevoked(context.Context, string) (bool, error) { return false, nil }
