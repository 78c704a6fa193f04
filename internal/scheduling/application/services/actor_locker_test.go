package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInProcessActorLocker_SameActorIsSerialized(t *testing.T) {
	locker := NewInProcessActorLocker()
	actorID := uuid.New()

	unlock, err := locker.Lock(context.Background(), actorID)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, actorID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock2, err := locker.Lock(context.Background(), actorID)
	require.NoError(t, err)
	unlock2()

	assert.Equal(t, 0, locker.size())
}

func TestInProcessActorLocker_DifferentActorsDoNotContend(t *testing.T) {
	locker := NewInProcessActorLocker()

	unlockA, err := locker.Lock(context.Background(), uuid.New())
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := locker.Lock(ctx, uuid.New())
	require.NoError(t, err)
	unlockB()
}

func TestInProcessActorLocker_UnlockIsIdempotent(t *testing.T) {
	locker := NewInProcessActorLocker()
	actorID := uuid.New()

	unlock, err := locker.Lock(context.Background(), actorID)
	require.NoError(t, err)
	unlock()
	unlock()

	assert.Equal(t, 0, locker.size())
}

func TestInProcessActorLocker_CriticalSectionsDoNotInterleave(t *testing.T) {
	locker := NewInProcessActorLocker()
	actorID := uuid.New()

	var (
		wg      sync.WaitGroup
		inside  int
		maxSeen int
		counter sync.Mutex
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), actorID)
			if err != nil {
				return
			}
			defer unlock()

			counter.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			counter.Unlock()

			time.Sleep(time.Millisecond)

			counter.Lock()
			inside--
			counter.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, locker.size())
}
