// Package kv defines the string key-value boundary that session history is
// persisted through, together with its in-memory, Redis and MongoDB
// backends. The SQLite backend lives in the store package.
package kv

import (
	"context"
	"errors"
)

// Store is a durable string key-value store. Get reports found=false with a
// nil error when the key has never been written.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("kv store closed")
