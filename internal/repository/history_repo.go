package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ai-assistant/internal/domain"
)

const (
	historyKeyPrefix = "history:"
	maxCASAttempts   = 5
)

// HistoryRepository guarda el historial acotado de cada sesion, en orden cronologico.
type HistoryRepository interface {
	List(ctx context.Context, sessionID string) ([]domain.Message, error)
	Append(ctx context.Context, sessionID string, msg domain.Message, limit int) error
}

// KVHistoryRepository guarda el historial como una lista JSON bajo history:<session>.
//
// Append es read-modify-write. Con un store que implementa Swapper la escritura
// es condicional y se reintenta; sin Swapper dos escrituras concurrentes sobre la
// misma sesion pueden pisarse (gana la ultima).
type KVHistoryRepository struct {
	store KVStore
}

func NewKVHistoryRepository(store KVStore) *KVHistoryRepository {
	return &KVHistoryRepository{store: store}
}

func historyKey(sessionID string) string {
	return historyKeyPrefix + sessionID
}

func (r *KVHistoryRepository) List(ctx context.Context, sessionID string) ([]domain.Message, error) {
	raw, err := r.store.Get(ctx, historyKey(sessionID))
	if errors.Is(err, ErrKeyNotFound) {
		return []domain.Message{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeHistory(raw)
}

func (r *KVHistoryRepository) Append(ctx context.Context, sessionID string, msg domain.Message, limit int) error {
	key := historyKey(sessionID)
	swapper, canSwap := r.store.(Swapper)

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		current, err := r.store.Get(ctx, key)
		if errors.Is(err, ErrKeyNotFound) {
			current = nil
		} else if err != nil {
			return fmt.Errorf("read history: %w", err)
		}

		// Un historial ilegible se reemplaza; current queda como old para el CAS.
		msgs, err := decodeHistory(current)
		if err != nil {
			msgs = []domain.Message{}
		}
		msgs = trimHistory(append(msgs, msg), limit)

		next, err := json.Marshal(msgs)
		if err != nil {
			return fmt.Errorf("marshal history: %w", err)
		}

		if !canSwap {
			return r.store.Put(ctx, key, next)
		}

		swapped, err := swapper.CompareAndSwap(ctx, key, current, next)
		if err != nil {
			return fmt.Errorf("swap history: %w", err)
		}
		if swapped {
			return nil
		}
	}
	return ErrHistoryConflict
}

func decodeHistory(raw []byte) ([]domain.Message, error) {
	msgs := []domain.Message{}
	if len(raw) == 0 {
		return msgs, nil
	}
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	return msgs, nil
}

func trimHistory(msgs []domain.Message, limit int) []domain.Message {
	if limit > 0 && len(msgs) > limit {
		return msgs[len(msgs)-limit:]
	}
	return msgs
}
