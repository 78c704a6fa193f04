package locking

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set, skipping redis integration test")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestLockKey(t *testing.T) {
	id := uuid.MustParse("6f1c2a4e-8a53-4a7e-9a0c-6c1d9a1f0b11")
	assert.Equal(t, "academia:availability:lock:6f1c2a4e-8a53-4a7e-9a0c-6c1d9a1f0b11", lockKey(id))
}

func TestNewRedisActorLocker_Defaults(t *testing.T) {
	locker := NewRedisActorLocker(nil, 0, nil)
	assert.Equal(t, DefaultLockTTL, locker.ttl)
	assert.NotNil(t, locker.logger)
}

func TestRedisActorLocker_SerializesSameActor(t *testing.T) {
	client := newTestClient(t)
	locker := NewRedisActorLocker(client, 5*time.Second, nil)
	actorID := uuid.New()

	unlock, err := locker.Lock(context.Background(), actorID)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, actorID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()

	unlock2, err := locker.Lock(context.Background(), actorID)
	require.NoError(t, err)
	unlock2()
}

func TestRedisActorLocker_ReleaseKeepsForeignToken(t *testing.T) {
	client := newTestClient(t)
	locker := NewRedisActorLocker(client, 50*time.Millisecond, nil)
	ctx := context.Background()
	actorID := uuid.New()

	unlock, err := locker.Lock(ctx, actorID)
	require.NoError(t, err)

	// Let the lease expire and another holder take over.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, client.Set(ctx, lockKey(actorID), "someone-else", time.Second).Err())

	unlock()

	val, err := client.Get(ctx, lockKey(actorID)).Result()
	require.NoError(t, err)
	assert.Equal(t, "someone-else", val)
	require.NoError(t, client.Del(ctx, lockKey(actorID)).Err())
}
