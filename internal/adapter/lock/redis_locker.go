// Package lock serializes work on a business key, e.g. one policy number, across workers.
package lock

import (
	"cargo_cover/internal/usecase/interfaces"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript deletes the key only while it still holds our token, so an expired lock
// taken over by another worker is never released by us.
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`)

type RedisLockerConfig struct {
	KeyPrefix string
	// TTL bounds how long a crashed holder blocks the key.
	TTL time.Duration
	// RetryInterval is the wait between acquisition attempts.
	RetryInterval time.Duration
}

func DefaultRedisLockerConfig() RedisLockerConfig {
	return RedisLockerConfig{
		KeyPrefix:     "lock:",
		TTL:           30 * time.Second,
		RetryInterval: 50 * time.Millisecond,
	}
}

// RedisLocker is a SET NX PX lease shared by every worker on the same redis.
type RedisLocker struct {
	client redis.UniversalClient
	cfg    RedisLockerConfig
	logger *zap.Logger
}

var _ interfaces.IKeyLocker = (*RedisLocker)(nil)

func NewRedisLocker(client redis.UniversalClient, cfg RedisLockerConfig, logger *zap.Logger) *RedisLocker {
	d := DefaultRedisLockerConfig()
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = d.KeyPrefix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = d.TTL
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = d.RetryInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLocker{client: client, cfg: cfg, logger: logger.Named("lock")}
}

// Lock blocks until key is acquired or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.cfg.KeyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.cfg.RetryInterval)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.cfg.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		if ok {
			return l.releaser(redisKey, token), nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("lock %s: %w", key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) releaser(redisKey, token string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
			l.logger.Warn("lock release failed; key expires with its ttl", zap.String("key", redisKey), zap.Error(err))
		}
	}
}
