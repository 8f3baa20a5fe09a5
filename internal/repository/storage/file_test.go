package storage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestFileStorage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	storage, err := NewFileStorage(newTestLogger(), dir)
	require.NoError(t, err)

	testProviderGetSet(t, ctx, storage)

	t.Run("Watch", func(t *testing.T) {
		watchDir := t.TempDir()

		// two handles on one directory act as two processes
		writer, err := NewFileStorage(newTestLogger(), watchDir)
		require.NoError(t, err)
		watched, err := NewFileStorage(newTestLogger(), watchDir)
		require.NoError(t, err)

		testProviderWatch(t, ctx, writer, watched)
	})

	t.Run("Set leaves no temporary files", func(t *testing.T) {
		require.NoError(t, storage.Set(ctx, testKey, []byte(`{}`)))

		matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("Value is stored as a file named after the key", func(t *testing.T) {
		require.NoError(t, storage.Set(ctx, testKey, []byte(`{"b":2}`)))

		content, err := os.ReadFile(filepath.Join(dir, testKey+".json"))
		require.NoError(t, err)
		assert.Equal(t, `{"b":2}`, string(content))
	})

	t.Run("Empty directory is rejected", func(t *testing.T) {
		_, err := NewFileStorage(newTestLogger(), " ")
		assert.Error(t, err)
	})
}
