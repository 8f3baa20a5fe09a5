package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	// registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

const defaultPollInterval = 500 * time.Millisecond

// SQLiteStorage - key-value table in a SQLite file, several processes may open the same file.
type SQLiteStorage struct {
	logger *slog.Logger

	Connection   *sql.DB
	pollInterval time.Duration
}

func NewSQLiteStorage(ctx context.Context, logger *slog.Logger, path string, pollInterval time.Duration) (*SQLiteStorage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}

	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	storage := &SQLiteStorage{
		logger:       logger.With("component", "sqlite_storage"),
		Connection:   conn,
		pollInterval: pollInterval,
	}

	if err = storage.Init(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return storage, nil
}

func (that *SQLiteStorage) Init(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value BLOB NOT NULL)`

	_, err := that.Connection.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("can't create table: %w", err)
	}

	return nil
}

func (that *SQLiteStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := that.Connection.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get key %q: %w", key, err)
	}

	return value, nil
}

func (that *SQLiteStorage) Set(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	if _, err := that.Connection.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}

	return nil
}

// Watch - polls PRAGMA data_version on a dedicated connection, it changes whenever another
// connection commits. The value under key is compared so writes to other keys are ignored.
func (that *SQLiteStorage) Watch(ctx context.Context, key string, onChange func()) error {
	log := that.logger.With("method", "Watch", "key", key)

	conn, err := that.Connection.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to get dedicated connection: %w", err)
	}

	version, err := dataVersion(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return err
	}

	last, err := that.Get(ctx, key)
	if err != nil && !errors.Is(err, ErrKeyNotFound) {
		_ = conn.Close()
		return err
	}

	go func() {
		defer conn.Close()

		ticker := time.NewTicker(that.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				current, versionErr := dataVersion(ctx, conn)
				if versionErr != nil {
					if ctx.Err() == nil {
						log.Error("failed to poll data version", "error", versionErr)
					}
					continue
				}

				if current == version {
					continue
				}
				version = current

				value, getErr := that.Get(ctx, key)
				if getErr != nil && !errors.Is(getErr, ErrKeyNotFound) {
					log.Error("failed to read watched key", "error", getErr)
					continue
				}

				if string(value) == string(last) {
					continue
				}
				last = value

				onChange()
			}
		}
	}()

	return nil
}

func (that *SQLiteStorage) Close() error {
	if err := that.Connection.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

func dataVersion(ctx context.Context, conn *sql.Conn) (int64, error) {
	var version int64
	if err := conn.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read data version: %w", err)
	}

	return version, nil
}
