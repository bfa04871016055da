package history

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/assetops/ragline/internal/db"
)

type memStore struct {
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memStore) Scan(_ context.Context, pattern string) ([]string, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func TestSaveAndList(t *testing.T) {
	store := newMemStore()
	repo := New(store, 0)

	msg := Message{ID: "m1", Content: "hello", Embedding: []float64{0.1, 0.2}}
	if err := repo.Save(context.Background(), msg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	msgs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].ID != "m1" || msgs[0].Content != "hello" {
		t.Errorf("unexpected message: %+v", msgs[0])
	}
	if len(msgs[0].Embedding) != 2 {
		t.Errorf("embedding not round-tripped: %v", msgs[0].Embedding)
	}
}

func TestSave_WithTTL(t *testing.T) {
	store := newMemStore()
	repo := New(store, time.Hour)

	if err := repo.Save(context.Background(), Message{ID: "m1", Content: "x"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if store.ttls["ragline:history:m1"] != time.Hour {
		t.Error("expected TTL to be set")
	}
}

func TestDelete(t *testing.T) {
	store := newMemStore()
	repo := New(store, 0)

	repo.Save(context.Background(), Message{ID: "m1"})
	if err := repo.Delete(context.Background(), "m1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	msgs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected empty list, got %d", len(msgs))
	}
}
