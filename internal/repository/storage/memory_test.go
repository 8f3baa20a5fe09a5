package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()

	testProviderGetSet(t, ctx, NewMemoryStorage())

	t.Run("Watch", func(t *testing.T) {
		memory := NewMemoryStorage()
		testProviderWatch(t, ctx, memory, memory)
	})

	t.Run("Returned values are copies", func(t *testing.T) {
		memory := NewMemoryStorage()
		value := []byte("abc")
		require.NoError(t, memory.Set(ctx, testKey, value))

		value[0] = 'x'
		stored, err := memory.Get(ctx, testKey)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), stored)
	})

	t.Run("Watcher is removed when the context is done", func(t *testing.T) {
		memory := NewMemoryStorage()
		watchCtx, cancel := context.WithCancel(ctx)

		require.NoError(t, memory.Watch(watchCtx, testKey, func() {}))
		cancel()

		assert.Eventually(t, func() bool {
			memory.mu.RLock()
			defer memory.mu.RUnlock()
			return len(memory.watchers[testKey]) == 0
		}, eventuallyWait, eventuallyTick)
	})
}
