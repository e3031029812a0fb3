package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ai-assistant/internal/domain"
	"ai-assistant/internal/repository"
)

const DefaultHistoryLimit = 10

var (
	ErrStoreNotBound = errors.New("conversation store not bound")
	ErrInvalidInput  = errors.New("invalid input")
)

// ConversationStore adapta los repositorios de historial y registros por turno.
// Las lecturas nunca propagan errores: un store ausente o caido se ve como vacio.
type ConversationStore struct {
	history repository.HistoryRepository
	records repository.ConversationRepository
	limit   int
	logger  *zap.Logger
	now     func() time.Time
}

func NewConversationStore(
	history repository.HistoryRepository,
	records repository.ConversationRepository,
	limit int,
	logger *zap.Logger,
) *ConversationStore {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationStore{
		history: history,
		records: records,
		limit:   limit,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *ConversationStore) Bound() bool {
	return s != nil && s.history != nil
}

func (s *ConversationStore) Limit() int {
	if s == nil {
		return DefaultHistoryLimit
	}
	return s.limit
}

// History devuelve el historial de la sesion o [] si no hay store, no hay clave o la lectura falla.
func (s *ConversationStore) History(ctx context.Context, sessionID string) []domain.Message {
	if !s.Bound() {
		return []domain.Message{}
	}
	msgs, err := s.history.List(ctx, sessionID)
	if err != nil {
		s.logger.Warn("history read failed", zap.String("session_id", sessionID), zap.Error(err))
		return []domain.Message{}
	}
	if msgs == nil {
		return []domain.Message{}
	}
	return msgs
}

// Append agrega un mensaje y recorta el historial a los ultimos Limit() elementos.
func (s *ConversationStore) Append(ctx context.Context, sessionID, role, content string) error {
	if !s.Bound() {
		return ErrStoreNotBound
	}
	if !domain.ValidRole(role) {
		return fmt.Errorf("%w: role %q", ErrInvalidInput, role)
	}
	msg := domain.NewMessage(role, content, s.now())
	if err := s.history.Append(ctx, sessionID, msg, s.limit); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// RecordTurn guarda el turno completo como registro independiente para el export.
func (s *ConversationStore) RecordTurn(ctx context.Context, sessionID, userMessage, reply string) error {
	if s == nil || s.records == nil {
		return ErrStoreNotBound
	}
	now := s.now()
	rec := domain.ConversationRecord{
		ID:          fmt.Sprintf("%s%d_%s", repository.ConversationKeyPrefix, now.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8]),
		UserMessage: userMessage,
		AIResponse:  reply,
		Timestamp:   now.Format(time.RFC3339Nano),
		SessionID:   sessionID,
	}
	if err := s.records.Save(ctx, rec); err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	return nil
}

// Export devuelve todos los registros ordenados por timestamp, o [] ante cualquier error.
func (s *ConversationStore) Export(ctx context.Context) []domain.ConversationRecord {
	if s == nil || s.records == nil {
		return []domain.ConversationRecord{}
	}
	recs, err := s.records.ListAll(ctx)
	if err != nil {
		s.logger.Warn("conversation export failed", zap.Error(err))
		return []domain.ConversationRecord{}
	}
	if recs == nil {
		return []domain.ConversationRecord{}
	}
	return recs
}
