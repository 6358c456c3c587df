// Package kv is the string key-value persistence the wallet and planner
// state can be laid out over, the server-side analogue of browser local
// storage.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get for an absent key.
	ErrNotFound = errors.New("ezcoin: key not found")
	// ErrConflict is returned by CompareAndSetMulti when the guard key no
	// longer holds the expected value. Nothing was written.
	ErrConflict = errors.New("ezcoin: key changed concurrently")
)

// Store is a flat string key-value store. SetMulti writes every entry or
// none of them.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	SetMulti(ctx context.Context, entries map[string]string) error
	Ping(ctx context.Context) error
	Close() error
}

// Swapper is implemented by stores that can make a multi-key write
// conditional on the current value of one key. An absent guard compares
// equal to "". The comparison and the write are atomic for every writer of
// the underlying storage, including other processes.
type Swapper interface {
	CompareAndSetMulti(ctx context.Context, guard, expected string, entries map[string]string) error
}
