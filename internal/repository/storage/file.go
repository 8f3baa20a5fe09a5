package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

const fileExtension = ".json"

// FileStorage - keeps one file per key in a directory. Several processes may share the directory.
type FileStorage struct {
	logger *slog.Logger
	dir    string
}

func NewFileStorage(logger *slog.Logger, dir string) (*FileStorage, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("storage directory is required")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &FileStorage{
		logger: logger.With("component", "file_storage"),
		dir:    filepath.Clean(dir),
	}, nil
}

func (that *FileStorage) Get(_ context.Context, key string) ([]byte, error) {
	value, err := os.ReadFile(that.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrKeyNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}

	return value, nil
}

// Set - writes a temporary file and renames it over the key so readers never see a partial value.
func (that *FileStorage) Set(_ context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(that.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err = tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err = os.Rename(tmpName, that.path(key)); err != nil {
		return fmt.Errorf("failed to replace key %q: %w", key, err)
	}

	return nil
}

// Watch - watches the directory, renames replace the file so watching the file itself would lose track of it.
func (that *FileStorage) Watch(ctx context.Context, key string, onChange func()) error {
	log := that.logger.With("method", "Watch", "key", key)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err = watcher.Add(that.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", that.dir, err)
	}

	target := that.path(key)

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(event.Name) != target {
					continue
				}

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) {
					onChange()
				}
			case watchErr, ok := <-watcher.Errors:
				if !ok {
					return
				}

				log.Error("file watcher error", "error", watchErr)
			}
		}
	}()

	return nil
}

func (that *FileStorage) Close() error {
	return nil
}

func (that *FileStorage) path(key string) string {
	return filepath.Join(that.dir, key+fileExtension)
}
