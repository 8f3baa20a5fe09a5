package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Applies defaults for missing fields", func(t *testing.T) {
		// Given: an almost empty config file
		path := writeConfig(t, "log-level: debug\n")

		// When: loading it
		conf, err := Load(path)

		// Then: defaults fill the rest
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, DriverFile, conf.Storage.Driver)
		assert.Equal(t, "game-state-key", conf.Storage.Key)
		assert.Equal(t, 500*time.Millisecond, conf.Storage.PollInterval)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Reads nested values", func(t *testing.T) {
		path := writeConfig(t, `
storage:
  driver: redis
  key: shared-game
redis:
  host: cache
  port: "6380"
  db: 2
players:
  player1:
    name: Ann
    color-class: red
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, DriverRedis, conf.Storage.Driver)
		assert.Equal(t, "shared-game", conf.Storage.Key)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, 2, conf.Redis.DB)

		players := conf.Players.GetPlayers()
		assert.Equal(t, "Ann", players[0].Name)
		assert.Equal(t, "red", players[0].ColorClass)
		assert.Equal(t, "fa-x", players[0].IconClass)
		assert.Equal(t, "Player 2", players[1].Name)
		assert.Equal(t, 1, players[0].ID)
		assert.Equal(t, 2, players[1].ID)
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		assert.Error(t, err)
	})

	t.Run("MustLoad panics on a missing file", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "absent.yml"))
		})
	})
}
