package lock

import (
	"context"
	"sync"
)

// Locker serializes update handling per chat
type Locker interface {
	// Lock blocks until the chat is free or ctx is done. The returned func releases the lock.
	Lock(ctx context.Context, chatID int64) (func(), error)
}

type chatLock struct {
	ch   chan struct{}
	refs int
}

// Memory is a Locker for a single bot process
type Memory struct {
	mu    sync.Mutex
	chats map[int64]*chatLock
}

// NewMemory creates an in-process locker
func NewMemory() *Memory {
	return &Memory{chats: make(map[int64]*chatLock)}
}

// Lock acquires the chat's lock
func (m *Memory) Lock(ctx context.Context, chatID int64) (func(), error) {
	m.mu.Lock()
	l, ok := m.chats[chatID]
	if !ok {
		l = &chatLock{ch: make(chan struct{}, 1)}
		m.chats[chatID] = l
	}
	l.refs++
	m.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
	case <-ctx.Done():
		m.release(chatID, l)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.ch
			m.release(chatID, l)
		})
	}, nil
}

// Len returns the number of chats holding or waiting for a lock
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chats)
}

func (m *Memory) release(chatID int64, l *chatLock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(m.chats, chatID)
	}
}
