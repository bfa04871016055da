// Package db defines the storage contracts: a bounded relational query
// spec executed by the sqlite store, and a key-value contract backed by
// Redis for persisted message embeddings.
package db

import (
	"context"
	"time"
)

// KVStore provides simple key-value operations with prefix scanning.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	Ping(ctx context.Context) error
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}
