package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"ai-assistant/internal/domain"
)

// putOnlyStore oculta CompareAndSwap para forzar el camino read-modify-write.
type putOnlyStore struct {
	inner *MemoryKVStore
}

func (s putOnlyStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Get(ctx, key)
}

func (s putOnlyStore) Put(ctx context.Context, key string, value []byte) error {
	return s.inner.Put(ctx, key, value)
}

func (s putOnlyStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// conflictingStore siempre pierde la carrera del CAS.
type conflictingStore struct {
	*MemoryKVStore
	swaps int
}

func (s *conflictingStore) CompareAndSwap(context.Context, string, []byte, []byte) (bool, error) {
	s.swaps++
	return false, nil
}

type failingStore struct {
	err error
}

func (s failingStore) Get(context.Context, string) ([]byte, error) { return nil, s.err }
func (s failingStore) Put(context.Context, string, []byte) error { return s.err }
func (s failingStore) List(context.Context, string) ([]string, error) { return nil, s.err }

func TestKVHistoryRepository_AppendAndList(t *testing.T) {
	stores := map[string]KVStore{
		"cas":      NewMemoryKVStore(),
		"put-only": putOnlyStore{inner: NewMemoryKVStore()},
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := NewKVHistoryRepository(store)

			msgs, err := repo.List(ctx, "fresh")
			if err != nil {
				t.Fatalf("list fresh: %v", err)
			}
			if msgs == nil || len(msgs) != 0 {
				t.Fatalf("expected empty non-nil history, got %+v", msgs)
			}

			for i := 1; i <= 3; i++ {
				msg := domain.Message{Role: domain.RoleUser, Content: fmt.Sprintf("m%d", i), Timestamp: int64(i)}
				if err := repo.Append(ctx, "s1", msg, 10); err != nil {
					t.Fatalf("append %d: %v", i, err)
				}
			}
			msgs, err = repo.List(ctx, "s1")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(msgs) != 3 || msgs[0].Content != "m1" || msgs[2].Content != "m3" {
				t.Fatalf("expected m1..m3 in order, got %+v", msgs)
			}
		})
	}
}

func TestKVHistoryRepository_TruncatesToLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewKVHistoryRepository(NewMemoryKVStore())

	for i := 1; i <= 11; i++ {
		msg := domain.Message{Role: domain.RoleUser, Content: fmt.Sprintf("m%d", i), Timestamp: int64(i)}
		if err := repo.Append(ctx, "s1", msg, 10); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	msgs, _ := repo.List(ctx, "s1")
	if len(msgs) != 10 {
		t.Fatalf("expected 10 messages, got %d", len(msgs))
	}
	if msgs[0].Content != "m2" || msgs[9].Content != "m11" {
		t.Fatalf("expected oldest dropped, got first=%q last=%q", msgs[0].Content, msgs[9].Content)
	}
}

func TestKVHistoryRepository_CASConflict(t *testing.T) {
	store := &conflictingStore{MemoryKVStore: NewMemoryKVStore()}
	repo := NewKVHistoryRepository(store)

	err := repo.Append(context.Background(), "s1", domain.Message{Role: domain.RoleUser, Content: "x"}, 10)
	if !errors.Is(err, ErrHistoryConflict) {
		t.Fatalf("expected ErrHistoryConflict, got %v", err)
	}
	if store.swaps != maxCASAttempts {
		t.Fatalf("expected %d swap attempts, got %d", maxCASAttempts, store.swaps)
	}
}

func TestKVHistoryRepository_Errors(t *testing.T) {
	ctx := context.Background()
	repo := NewKVHistoryRepository(failingStore{err: errors.New("store down")})

	if _, err := repo.List(ctx, "s1"); err == nil {
		t.Fatalf("expected list error")
	}
	if err := repo.Append(ctx, "s1", domain.Message{}, 10); err == nil {
		t.Fatalf("expected append error")
	}

	store := NewMemoryKVStore()
	_ = store.Put(ctx, historyKey("bad"), []byte("not json"))
	repo = NewKVHistoryRepository(store)
	if _, err := repo.List(ctx, "bad"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestKVHistoryRepository_AppendReplacesCorruptHistory(t *testing.T) {
	stores := map[string]KVStore{
		"cas":      NewMemoryKVStore(),
		"put-only": putOnlyStore{inner: NewMemoryKVStore()},
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Put(ctx, historyKey("s1"), []byte("not-json")); err != nil {
				t.Fatalf("seed: %v", err)
			}
			repo := NewKVHistoryRepository(store)

			if _, err := repo.List(ctx, "s1"); err == nil {
				t.Fatalf("expected list to report corrupt history")
			}

			msg := domain.Message{Role: domain.RoleUser, Content: "hola", Timestamp: 1}
			if err := repo.Append(ctx, "s1", msg, 10); err != nil {
				t.Fatalf("expected append to recover, got %v", err)
			}

			got, err := repo.List(ctx, "s1")
			if err != nil {
				t.Fatalf("list after recovery: %v", err)
			}
			if len(got) != 1 || got[0] != msg {
				t.Fatalf("expected only the new message, got %+v", got)
			}
		})
	}
}
