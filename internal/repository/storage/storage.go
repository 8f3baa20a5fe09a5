package storage

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// Provider - a key-value slot store shared between processes.
type Provider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error

	// Watch calls onChange every time the value under key changes, until ctx is done.
	// It returns as soon as the subscription is established.
	Watch(ctx context.Context, key string, onChange func()) error

	Close() error
}
