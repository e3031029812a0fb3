package repository

import (
	"context"
	"encoding/json"
	"errors"
)

const settingsKeyPrefix = "settings:"

// SettingsRepository guarda la configuracion de cada tenant tal cual llega.
type SettingsRepository interface {
	Save(ctx context.Context, tenantID string, raw json.RawMessage) error
	Get(ctx context.Context, tenantID string) (json.RawMessage, error)
}

type KVSettingsRepository struct {
	store KVStore
}

func NewKVSettingsRepository(store KVStore) *KVSettingsRepository {
	return &KVSettingsRepository{store: store}
}

func (r *KVSettingsRepository) Save(ctx context.Context, tenantID string, raw json.RawMessage) error {
	if len(raw) == 0 {
		return errors.New("empty settings payload")
	}
	return r.store.Put(ctx, settingsKeyPrefix+tenantID, raw)
}

// Get devuelve ErrKeyNotFound si el tenant nunca guardo settings.
func (r *KVSettingsRepository) Get(ctx context.Context, tenantID string) (json.RawMessage, error) {
	raw, err := r.store.Get(ctx, settingsKeyPrefix+tenantID)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
