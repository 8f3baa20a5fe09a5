package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorage(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	storage, err := NewSQLiteStorage(ctx, newTestLogger(), path, 20*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	testProviderGetSet(t, ctx, storage)

	t.Run("Watch", func(t *testing.T) {
		watchPath := filepath.Join(t.TempDir(), "watch.db")

		writer, err := NewSQLiteStorage(ctx, newTestLogger(), watchPath, 20*time.Millisecond)
		require.NoError(t, err)
		t.Cleanup(func() { _ = writer.Close() })

		watched, err := NewSQLiteStorage(ctx, newTestLogger(), watchPath, 20*time.Millisecond)
		require.NoError(t, err)
		t.Cleanup(func() { _ = watched.Close() })

		testProviderWatch(t, ctx, writer, watched)
	})

	t.Run("Empty path is rejected", func(t *testing.T) {
		_, err := NewSQLiteStorage(ctx, newTestLogger(), "", 0)
		assert.Error(t, err)
	})
}
