package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const entitlementPrefix = "facefit:entitlement:"

// EntitlementCache keeps recent entitlement answers so gated endpoints skip the billing API.
type EntitlementCache struct {
	rdb goredis.UniversalClient
	ttl time.Duration
}

func NewEntitlementCache(rdb goredis.UniversalClient, ttl time.Duration) *EntitlementCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &EntitlementCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached answer; found is false on a miss.
func (c *EntitlementCache) Get(ctx context.Context, userID uuid.UUID) (active bool, found bool, err error) {
	v, err := c.rdb.Get(ctx, entitlementPrefix+userID.String()).Result()
	if errors.Is(err, goredis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return v == "1", true, nil
}

func (c *EntitlementCache) Set(ctx context.Context, userID uuid.UUID, active bool) error {
	v := "0"
	if active {
		v = "1"
	}
	return c.rdb.Set(ctx, entitlementPrefix+userID.String(), v, c.ttl).Err()
}

func (c *EntitlementCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.rdb.Del(ctx, entitlementPrefix+userID.String()).Err()
}
