package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// ActorLocker serializes mutations of a single actor's availability. Different
// actors never contend.
type ActorLocker interface {
	// Lock blocks until the actor's lock is held or ctx is done. The returned
	// unlock func is safe to call more than once.
	Lock(ctx context.Context, actorID uuid.UUID) (unlock func(), err error)
}

// InProcessActorLocker is an ActorLocker for a single process.
type InProcessActorLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*actorLock
}

type actorLock struct {
	sem  chan struct{}
	refs int
}

// NewInProcessActorLocker creates an in-process locker.
func NewInProcessActorLocker() *InProcessActorLocker {
	return &InProcessActorLocker{locks: make(map[uuid.UUID]*actorLock)}
}

// Lock acquires the actor's lock.
func (l *InProcessActorLocker) Lock(ctx context.Context, actorID uuid.UUID) (func(), error) {
	l.mu.Lock()
	lock, ok := l.locks[actorID]
	if !ok {
		lock = &actorLock{sem: make(chan struct{}, 1)}
		l.locks[actorID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(actorID, lock)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lock.sem
			l.release(actorID, lock)
		})
	}, nil
}

// release drops a reference and forgets the lock once nobody holds or waits on it.
func (l *InProcessActorLocker) release(actorID uuid.UUID, lock *actorLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, actorID)
	}
}

// size reports how many actors currently have a lock entry.
func (l *InProcessActorLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
