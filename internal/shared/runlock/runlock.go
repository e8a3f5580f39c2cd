package runlock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker serializes payroll runs per (organization, period). Concurrent
// runs over the same period would race on the Salary aggregates, so a
// second caller must fail fast instead of computing against moving rows.
type Locker interface {
	Acquire(ctx context.Context, organizationID string, year, month int) (release func(), ok bool, err error)
}

type redisLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) Locker {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &redisLocker{rdb: rdb, ttl: ttl}
}

func (l *redisLocker) Acquire(ctx context.Context, organizationID string, year, month int) (func(), bool, error) {
	key := fmt.Sprintf("payroll:run:%s:%04d-%02d", organizationID, year, month)

	ok, err := l.rdb.SetNX(ctx, key, "locked", l.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		_ = l.rdb.Del(context.Background(), key).Err()
	}
	return release, true, nil
}

// NoopLocker is used where external serialization is already guaranteed
// (single-runner deployments, tests).
type NoopLocker struct{}

func (NoopLocker) Acquire(ctx context.Context, organizationID string, year, month int) (func(), bool, error) {
	return func() {}, true, nil
}
