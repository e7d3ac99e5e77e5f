package lock

import (
	"cargo_cover/internal/usecase/interfaces"
	"context"
	"fmt"
	"sync"
)

// MemoryLocker serializes keys inside one process.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

// slot is a one-token semaphore shared by every waiter of a key.
type slot struct {
	ch      chan struct{}
	waiters int
}

var _ interfaces.IKeyLocker = (*MemoryLocker)(nil)

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: map[string]*slot{}}
}

func (l *MemoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.waiters++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.leave(key, s)
		return nil, fmt.Errorf("lock %s: %w", key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.leave(key, s)
		})
	}, nil
}

// leave drops the slot once nobody holds or waits for it.
func (l *MemoryLocker) leave(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.waiters--
	if s.waiters == 0 {
		delete(l.slots, key)
	}
}
