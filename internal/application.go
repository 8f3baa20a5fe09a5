package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-local/internal/config"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-local/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-local/transport/console"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrUnknownStorage = errors.New("unknown storage driver")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	return Run(ctx, logger, conf, os.Stdin, os.Stdout)
}

// Run - wires the storage, the state store and the console and blocks until the console stops.
func Run(ctx context.Context, logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	provider, err := NewProvider(ctx, logger, conf)
	if err != nil {
		return fmt.Errorf("could not open storage: %w", err)
	}

	defer func() {
		if err = provider.Close(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	gameStateRepo := repository.NewGameStateRepository(provider, conf.Storage.Key)
	stateStore := usecase.NewStateStore(logger, conf.Players.GetPlayers(), gameStateRepo)

	if err = stateStore.Watch(ctx); err != nil {
		return fmt.Errorf("could not watch storage: %w", err)
	}

	log.Info("Starting console", "storage", conf.Storage.Driver, "key", conf.Storage.Key)

	if err = console.New(logger, stateStore, in, out).Run(ctx); err != nil {
		return fmt.Errorf("console error: %w", err)
	}

	log.Info("Console stopped, shutting down")

	return nil
}

// NewProvider - opens the storage selected by conf.Storage.Driver.
func NewProvider(ctx context.Context, logger *slog.Logger, conf *config.Config) (storage.Provider, error) {
	switch conf.Storage.Driver {
	case config.DriverFile:
		return storage.NewFileStorage(logger, conf.Storage.FileDir)
	case config.DriverSQLite:
		return storage.NewSQLiteStorage(ctx, logger, conf.Storage.SQLitePath, conf.Storage.PollInterval)
	case config.DriverMemory:
		return storage.NewMemoryStorage(), nil
	case config.DriverRedis:
		if conf.Redis.Host == "" || conf.Redis.Port == "" {
			return nil, ErrAddrNotFound
		}

		var opts []storage.RedisOption
		if conf.Redis.KeyspaceConfig {
			opts = append(opts, storage.WithKeyspaceConfig())
		}

		return storage.NewRedisStorage(ctx, logger, conf.Redis.GetRedisAddr(), conf.Redis.DB, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, conf.Storage.Driver)
	}
}
