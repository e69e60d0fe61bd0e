package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/facefit-backend/internal/pkg/httpx"
	"github.com/yungbote/facefit-backend/internal/pkg/keylock"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

// releaseScript deletes the lock only while it still carries our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const (
	DefaultLockTTL    = 30 * time.Second
	defaultLockPrefix = "facefit:lock:"
)

// Locker is a keylock.Locker shared by every API instance. A holder that dies
// keeps the key until its TTL lapses.
type Locker struct {
	rdb    goredis.UniversalClient
	log    *logger.Logger
	ttl    time.Duration
	prefix string
	// retry bounds between acquisition attempts
	minWait time.Duration
	maxWait time.Duration
}

var _ keylock.Locker = (*Locker)(nil)

func NewLocker(rdb goredis.UniversalClient, log *logger.Logger, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &Locker{
		rdb:     rdb,
		log:     log.With("service", "RedisLocker"),
		ttl:     ttl,
		prefix:  defaultLockPrefix,
		minWait: 10 * time.Millisecond,
		maxWait: 250 * time.Millisecond,
	}
}

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	full := l.prefix + key
	token := uuid.NewString()
	wait := l.minWait
	for {
		ok, err := l.rdb.SetNX(ctx, full, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			break
		}
		if err := httpx.Sleep(ctx, httpx.JitterSleep(wait)); err != nil {
			return nil, err
		}
		wait = min(wait*2, l.maxWait)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// the caller's ctx may already be done; release on a fresh deadline
			rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			err := releaseScript.Run(rctx, l.rdb, []string{full}, token).Err()
			if err != nil && !errors.Is(err, goredis.Nil) {
				l.log.Warn("Redis lock release failed", "key", key, "error", err)
			}
		})
	}, nil
}
