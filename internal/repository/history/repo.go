// Package history persists assistant-message embeddings for
// similar-message retrieval across sessions.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/assetops/ragline/internal/db"
)

const keyPrefix = "ragline:history:"

// store is the consumer interface for history persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Message is one persisted assistant message with its embedding.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Embedding []float64 `json:"embedding"`
}

// Repo implements usecase/history.Repository.
type Repo struct {
	store store
	ttl   time.Duration
}

// New creates a history repository. A zero ttl persists messages
// indefinitely.
func New(s store, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl}
}

// Save stores a message embedding under its ID.
func (r *Repo) Save(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	key := keyPrefix + msg.ID
	if r.ttl > 0 {
		if err := r.store.SetWithTTL(ctx, key, data, r.ttl); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		return nil
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// List returns all persisted messages. Keys deleted between scan and
// get are skipped.
func (r *Repo) List(ctx context.Context) ([]Message, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan history: %w", err)
	}

	msgs := make([]Message, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", key, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// Delete removes one message.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, keyPrefix+id); err != nil {
		return fmt.Errorf("del %s: %w", id, err)
	}
	return nil
}
