package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// keyspaceEvents - K enables keyspace channels, $ string commands, g generic ones like DEL.
const keyspaceEvents = "K$g"

type RedisStorage struct {
	logger *slog.Logger

	Connection *redis.Client

	// enable keyspace notifications on the server before watching
	configureKeyspace bool
}

type RedisOption func(*RedisStorage)

// WithKeyspaceConfig - runs CONFIG SET notify-keyspace-events before the first watch.
func WithKeyspaceConfig() RedisOption {
	return func(that *RedisStorage) {
		that.configureKeyspace = true
	}
}

func NewRedisStorage(ctx context.Context, logger *slog.Logger, addr string, db int, opts ...RedisOption) (*RedisStorage, error) {
	conn := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	_, err := conn.Ping(ctx).Result()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStorageFromClient(logger, conn, opts...), nil
}

func NewRedisStorageFromClient(logger *slog.Logger, conn *redis.Client, opts ...RedisOption) *RedisStorage {
	storage := &RedisStorage{
		logger:     logger.With("component", "redis_storage"),
		Connection: conn,
	}

	for _, opt := range opts {
		opt(storage)
	}

	return storage
}

func (that *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := that.Connection.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get key %q: %w", key, err)
	}

	return value, nil
}

func (that *RedisStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := that.Connection.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}

	return nil
}

// Watch - subscribes to the keyspace channel of key.
func (that *RedisStorage) Watch(ctx context.Context, key string, onChange func()) error {
	log := that.logger.With("method", "Watch", "key", key)

	if that.configureKeyspace {
		if err := that.Connection.ConfigSet(ctx, "notify-keyspace-events", keyspaceEvents).Err(); err != nil {
			return fmt.Errorf("failed to enable keyspace notifications: %w", err)
		}
	}

	channel := fmt.Sprintf("__keyspace@%d__:%s", that.Connection.Options().DB, key)

	pubsub := that.Connection.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	messages := pubsub.Channel()

	go func() {
		defer func() {
			if err := pubsub.Close(); err != nil {
				log.Error("could not close subscription", "error", err)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				log.Debug("keyspace event", "event", msg.Payload)
				onChange()
			}
		}
	}()

	return nil
}

func (that *RedisStorage) Close() error {
	if err := that.Connection.Close(); err != nil {
		return fmt.Errorf("failed to close redis connection: %w", err)
	}

	return nil
}
