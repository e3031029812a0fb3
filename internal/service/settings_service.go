package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"ai-assistant/internal/repository"
)

// SettingsService guarda la configuracion de cada tenant tal cual la manda el cliente.
type SettingsService struct {
	repo   repository.SettingsRepository
	strict bool
	logger *zap.Logger
}

func NewSettingsService(repo repository.SettingsRepository, strict bool, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, strict: strict, logger: logger}
}

// Save valida que el payload sea un objeto JSON y lo escribe bajo el tenant del contexto.
func (s *SettingsService) Save(ctx context.Context, raw json.RawMessage) (PersistResult, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return PersistResult{}, ErrInvalidInput
	}
	if s == nil || s.repo == nil {
		return persistOutcome(ErrStoreNotBound, false), nil
	}

	tenantID := TenantFromContext(ctx)
	err := s.repo.Save(ctx, tenantID, json.RawMessage(trimmed))
	if err != nil {
		s.logger.Warn("settings write failed", zap.String("tenant_id", tenantID), zap.Error(err))
	}
	return persistOutcome(err, s.strict), nil
}

// Get devuelve los settings del tenant, o {} si no hay nada guardado o el store falla.
func (s *SettingsService) Get(ctx context.Context) json.RawMessage {
	empty := json.RawMessage(`{}`)
	if s == nil || s.repo == nil {
		return empty
	}
	raw, err := s.repo.Get(ctx, TenantFromContext(ctx))
	if err != nil {
		if !errors.Is(err, repository.ErrKeyNotFound) {
			s.logger.Warn("settings read failed", zap.Error(err))
		}
		return empty
	}
	return raw
}

// ResponseStyle lee responseStyle de los settings guardados del tenant.
func (s *SettingsService) ResponseStyle(ctx context.Context) string {
	var parsed struct {
		ResponseStyle string `json:"responseStyle"`
	}
	if err := json.Unmarshal(s.Get(ctx), &parsed); err != nil {
		return ""
	}
	return parsed.ResponseStyle
}
