package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"ai-assistant/internal/domain"
	"ai-assistant/internal/repository"
)

type failingHistoryRepo struct{ err error }

func (f failingHistoryRepo) List(context.Context, string) ([]domain.Message, error) { return nil, f.err }
func (f failingHistoryRepo) Append(context.Context, string, domain.Message, int) error {
	return f.err
}

type failingConversationRepo struct{ err error }

func (f failingConversationRepo) Save(context.Context, domain.ConversationRecord) error { return f.err }
func (f failingConversationRepo) ListAll(context.Context) ([]domain.ConversationRecord, error) {
	return nil, f.err
}

func newMemoryConversationStore(limit int) (*ConversationStore, *repository.MemoryKVStore) {
	kv := repository.NewMemoryKVStore()
	store := NewConversationStore(
		repository.NewKVHistoryRepository(kv),
		repository.NewKVConversationRepository(kv),
		limit,
		nil,
	)
	return store, kv
}

func TestConversationStore_AppendTrimsToLimit(t *testing.T) {
	store, _ := newMemoryConversationStore(DefaultHistoryLimit)
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		if err := store.Append(ctx, "s1", domain.RoleUser, fmt.Sprintf("m%d", i)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got := store.History(ctx, "s1")
	if len(got) != DefaultHistoryLimit {
		t.Fatalf("expected %d messages, got %d", DefaultHistoryLimit, len(got))
	}
	if got[0].Content != "m1" || got[len(got)-1].Content != "m10" {
		t.Fatalf("expected oldest entry dropped, got first=%q last=%q", got[0].Content, got[len(got)-1].Content)
	}
}

func TestConversationStore_UnboundIsEmpty(t *testing.T) {
	store := NewConversationStore(nil, nil, 0, nil)
	ctx := context.Background()

	if store.Bound() {
		t.Fatalf("expected unbound store")
	}
	if got := store.History(ctx, "s1"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil history, got %#v", got)
	}
	if err := store.Append(ctx, "s1", domain.RoleUser, "hi"); !errors.Is(err, ErrStoreNotBound) {
		t.Fatalf("expected ErrStoreNotBound, got %v", err)
	}
	if err := store.RecordTurn(ctx, "s1", "hi", "hello"); !errors.Is(err, ErrStoreNotBound) {
		t.Fatalf("expected ErrStoreNotBound, got %v", err)
	}
	if got := store.Export(ctx); got == nil || len(got) != 0 {
		t.Fatalf("expected empty export, got %#v", got)
	}
}

func TestConversationStore_ReadErrorsAreSwallowed(t *testing.T) {
	boom := errors.New("kv down")
	store := NewConversationStore(failingHistoryRepo{err: boom}, failingConversationRepo{err: boom}, 0, nil)
	ctx := context.Background()

	if got := store.History(ctx, "s1"); len(got) != 0 {
		t.Fatalf("expected empty history on failure, got %d", len(got))
	}
	if got := store.Export(ctx); len(got) != 0 {
		t.Fatalf("expected empty export on failure, got %d", len(got))
	}
	if err := store.Append(ctx, "s1", domain.RoleUser, "hi"); !errors.Is(err, boom) {
		t.Fatalf("expected write error to surface, got %v", err)
	}
}

func TestConversationStore_RejectsUnknownRole(t *testing.T) {
	store, _ := newMemoryConversationStore(0)
	if err := store.Append(context.Background(), "s1", "system", "x"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestConversationStore_RecordTurnAndExport(t *testing.T) {
	store, kv := newMemoryConversationStore(0)
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(-tick) * time.Minute)
	}

	if err := store.RecordTurn(ctx, "s1", "first", "one"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.RecordTurn(ctx, "s1", "second", "two"); err != nil {
		t.Fatalf("record: %v", err)
	}

	keys, err := kv.List(ctx, repository.ConversationKeyPrefix)
	if err != nil || len(keys) != 2 {
		t.Fatalf("expected 2 conversation keys, got %v err=%v", keys, err)
	}
	for _, k := range keys {
		if !strings.HasPrefix(k, "conv_") {
			t.Fatalf("unexpected key %q", k)
		}
	}

	recs := store.Export(ctx)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	// el segundo registro tiene timestamp anterior, por eso sale primero
	if recs[0].UserMessage != "second" || recs[1].UserMessage != "first" {
		t.Fatalf("expected export sorted by timestamp, got %q then %q", recs[0].UserMessage, recs[1].UserMessage)
	}
	if recs[0].SessionID != "s1" || recs[0].AIResponse != "two" {
		t.Fatalf("unexpected record %+v", recs[0])
	}
}
