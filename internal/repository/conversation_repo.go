package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"ai-assistant/internal/domain"
)

const ConversationKeyPrefix = "conv_"

// ConversationRepository persiste un registro por turno y reconstruye el historial completo.
type ConversationRepository interface {
	Save(ctx context.Context, record domain.ConversationRecord) error
	ListAll(ctx context.Context) ([]domain.ConversationRecord, error)
}

type KVConversationRepository struct {
	store KVStore
}

func NewKVConversationRepository(store KVStore) *KVConversationRepository {
	return &KVConversationRepository{store: store}
}

func (r *KVConversationRepository) Save(ctx context.Context, record domain.ConversationRecord) error {
	if record.ID == "" {
		return errors.New("conversation record without id")
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	return r.store.Put(ctx, record.ID, payload)
}

// ListAll lee todos los registros conv_* ordenados por timestamp ascendente.
// Los registros ilegibles o borrados entre el listado y la lectura se omiten.
func (r *KVConversationRepository) ListAll(ctx context.Context) ([]domain.ConversationRecord, error) {
	keys, err := r.store.List(ctx, ConversationKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	records := make([]domain.ConversationRecord, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.Get(ctx, key)
		if errors.Is(err, ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get conversation %s: %w", key, err)
		}
		var rec domain.ConversationRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}

	SortConversations(records)
	return records, nil
}

// SortConversations ordena de forma estable por timestamp ascendente.
func SortConversations(records []domain.ConversationRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Time().Before(records[j].Time())
	})
}
