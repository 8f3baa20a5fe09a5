package storage

import (
	"context"
	"sync"
)

// MemoryStorage - in-process provider, every Set notifies all watchers of the key.
type MemoryStorage struct {
	mu       sync.RWMutex
	values   map[string][]byte
	watchers map[string]map[int]func()
	nextID   int
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		values:   make(map[string][]byte),
		watchers: make(map[string]map[int]func()),
	}
}

func (that *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	value, ok := that.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}

	return append([]byte(nil), value...), nil
}

func (that *MemoryStorage) Set(_ context.Context, key string, value []byte) error {
	that.mu.Lock()
	that.values[key] = append([]byte(nil), value...)

	watchers := make([]func(), 0, len(that.watchers[key]))
	for _, onChange := range that.watchers[key] {
		watchers = append(watchers, onChange)
	}
	that.mu.Unlock()

	for _, onChange := range watchers {
		onChange()
	}

	return nil
}

func (that *MemoryStorage) Watch(ctx context.Context, key string, onChange func()) error {
	that.mu.Lock()
	id := that.nextID
	that.nextID++

	if that.watchers[key] == nil {
		that.watchers[key] = make(map[int]func())
	}
	that.watchers[key][id] = onChange
	that.mu.Unlock()

	go func() {
		<-ctx.Done()

		that.mu.Lock()
		delete(that.watchers[key], id)
		that.mu.Unlock()
	}()

	return nil
}

func (that *MemoryStorage) Close() error {
	return nil
}
