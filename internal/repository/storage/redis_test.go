package storage

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-local/testing/suite"
	"github.com/stretchr/testify/require"
)

func TestRedisStorage(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx, st := suite.New(t)

	storage := NewRedisStorageFromClient(st.Logger, st.Storage, WithKeyspaceConfig())

	testProviderGetSet(t, ctx, storage)

	t.Run("Watch", func(t *testing.T) {
		testProviderWatch(t, ctx, storage, storage)
	})

	t.Run("Ping fails on an unreachable server", func(t *testing.T) {
		_, err := NewRedisStorage(ctx, st.Logger, "127.0.0.1:1", 0)
		require.Error(t, err)
	})
}
