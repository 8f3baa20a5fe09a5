package storage

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey        = "game-state-key"
	eventuallyWait = 5 * time.Second
	eventuallyTick = 20 * time.Millisecond
)

// testProviderGetSet - checks the read/write contract every provider shares.
func testProviderGetSet(t *testing.T, ctx context.Context, provider Provider) {
	t.Helper()

	t.Run("Get returns ErrKeyNotFound for a missing key", func(t *testing.T) {
		// When: reading a key never written
		value, err := provider.Get(ctx, "missing-key")

		// Then: ErrKeyNotFound is returned
		require.ErrorIs(t, err, ErrKeyNotFound)
		assert.Nil(t, value)
	})

	t.Run("Set then Get returns the stored value", func(t *testing.T) {
		// Given: a stored value
		require.NoError(t, provider.Set(ctx, testKey, []byte(`{"a":1}`)))

		// When: reading it back
		value, err := provider.Get(ctx, testKey)

		// Then: the same bytes are returned
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"a":1}`), value)
	})

	t.Run("Set overwrites the previous value", func(t *testing.T) {
		require.NoError(t, provider.Set(ctx, testKey, []byte(`first`)))
		require.NoError(t, provider.Set(ctx, testKey, []byte(`second`)))

		value, err := provider.Get(ctx, testKey)
		require.NoError(t, err)
		assert.Equal(t, []byte(`second`), value)
	})
}

// testProviderWatch - a write through writer must reach a watcher registered on watched.
func testProviderWatch(t *testing.T, ctx context.Context, writer, watched Provider) {
	t.Helper()

	// Given: a watcher on the key
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var calls atomic.Int32
	require.NoError(t, watched.Watch(watchCtx, testKey, func() { calls.Add(1) }))

	// When: another handle writes the key
	require.NoError(t, writer.Set(ctx, testKey, []byte(`{"changed":true}`)))

	// Then: the watcher is notified
	assert.Eventually(t, func() bool { return calls.Load() > 0 }, eventuallyWait, eventuallyTick)

	// And: writes to other keys are not reported once things settle
	time.Sleep(200 * time.Millisecond)
	before := calls.Load()
	require.NoError(t, writer.Set(ctx, "other-key", []byte(`x`)))
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, before, calls.Load())
}
