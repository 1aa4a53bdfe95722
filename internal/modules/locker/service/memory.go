package service

import (
	"context"
	"sync"
	"time"
)

// Memory держит локи в пределах одного процесса: на каждый ключ канал-семафор ёмкостью 1.
type Memory struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
	wait  time.Duration
}

func NewMemory(wait time.Duration) *Memory {
	return &Memory{
		locks: make(map[string]chan struct{}),
		wait:  wait,
	}
}

func (m *Memory) sem(key string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		m.locks[key] = ch
	}
	return ch
}

func (m *Memory) Acquire(ctx context.Context, key string) (func(), error) {
	ch := m.sem(key)

	waitCtx, cancel := context.WithTimeout(ctx, m.wait)
	defer cancel()

	select {
	case ch <- struct{}{}:
	case <-waitCtx.Done():
		return nil, waitErr(ctx, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-ch })
	}, nil
}
