// Package locking provides ActorLocker implementations that work across processes.
package locking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/academia/internal/scheduling/application/services"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ services.ActorLocker = (*RedisActorLocker)(nil)

const (
	// DefaultLockTTL bounds how long a crashed holder can block an actor.
	DefaultLockTTL = 10 * time.Second

	defaultRetryInterval = 25 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisActorLocker serializes availability mutations per actor using SET NX PX.
// Keys are namespaced: academia:availability:lock:{actor_id}
type RedisActorLocker struct {
	client        *redis.Client
	ttl           time.Duration
	retryInterval time.Duration
	logger        *slog.Logger
}

// NewRedisActorLocker creates a Redis-backed locker. A non-positive ttl uses DefaultLockTTL.
func NewRedisActorLocker(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisActorLocker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisActorLocker{
		client:        client,
		ttl:           ttl,
		retryInterval: defaultRetryInterval,
		logger:        logger,
	}
}

// lockKey creates the namespaced key for an actor.
func lockKey(actorID uuid.UUID) string {
	return fmt.Sprintf("academia:availability:lock:%s", actorID)
}

// Lock retries SET NX until the key is ours or ctx is done.
func (l *RedisActorLocker) Lock(ctx context.Context, actorID uuid.UUID) (func(), error) {
	key := lockKey(actorID)
	token := uuid.NewString()

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		// The caller's ctx may already be cancelled; release on a fresh one.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("failed to release actor lock", "key", key, "error", err)
		}
	}, nil
}
