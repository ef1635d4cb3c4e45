// Package lock provides a cross-process advisory lock per content item so a
// periodic sweep and a manual refresh never fetch the same item at once.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"content_metrics/internal/domain"
)

const (
	DefaultTTL     = time.Minute
	defaultPrefix  = "content_metrics:lock:"
	releaseTimeout = 2 * time.Second
)

// unlockScript deletes the key only when it still holds our token.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

type RedisLocker struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLocker{rdb: rdb, prefix: defaultPrefix, ttl: ttl}
}

// Connect creates a client and checks connectivity.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// Acquire takes the lock for key. It returns domain.ErrRefreshInFlight when
// another holder has it. The returned release is safe to call once the
// caller's context is done.
func (l *RedisLocker) Acquire(ctx context.Context, key domain.ContentKey) (func(), error) {
	name := l.prefix + key.String()
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, name, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	if !ok {
		return nil, fmt.Errorf("lock %s: %w", name, domain.ErrRefreshInFlight)
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		_ = unlockScript.Run(releaseCtx, l.rdb, []string{name}, token).Err()
	}
	return release, nil
}
