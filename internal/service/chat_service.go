package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ai-assistant/internal/domain"
)

// FallbackResponse es lo que ve el usuario cuando el turno no se pudo procesar.
const FallbackResponse = "I'm having trouble processing your request right now. Please try again."

type ChatRequest struct {
	Message   string
	SessionID string
	History   []domain.Message
	Style     string
}

type ChatResult struct {
	Response  string
	Timestamp string
	MessageID string
	SessionID string
	Persist   PersistResult
}

// ChatService orquesta un turno: historial, respuesta y persistencia best-effort.
type ChatService struct {
	store          *ConversationStore
	responder      Responder
	settings       *SettingsService
	defaultSession string
	logger         *zap.Logger
	now            func() time.Time
}

func NewChatService(
	store *ConversationStore,
	responder Responder,
	settings *SettingsService,
	defaultSession string,
	logger *zap.Logger,
) *ChatService {
	if responder == nil {
		responder = NewCannedResponder()
	}
	if strings.TrimSpace(defaultSession) == "" {
		defaultSession = "default"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		store:          store,
		responder:      responder,
		settings:       settings,
		defaultSession: defaultSession,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Reply procesa un mensaje. Solo falla con ErrInvalidInput; los errores de
// persistencia quedan en ChatResult.Persist y nunca cortan el request.
func (s *ChatService) Reply(ctx context.Context, req ChatRequest) (ChatResult, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return ChatResult{}, ErrInvalidInput
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = s.defaultSession
	}

	history := s.store.History(ctx, sessionID)
	if len(history) == 0 && len(req.History) > 0 {
		history = clientHistory(req.History, s.store.Limit())
	}

	style := strings.TrimSpace(req.Style)
	if style == "" && s.settings != nil {
		style = s.settings.ResponseStyle(ctx)
	}

	reply := s.responder.Respond(ctx, ResponseRequest{
		Message: message,
		Style:   style,
		History: history,
	})

	persist := s.persistTurn(ctx, sessionID, message, reply)

	return ChatResult{
		Response:  reply,
		Timestamp: s.now().Format(time.RFC3339Nano),
		MessageID: uuid.NewString(),
		SessionID: sessionID,
		Persist:   persist,
	}, nil
}

func (s *ChatService) persistTurn(ctx context.Context, sessionID, message, reply string) PersistResult {
	results := []PersistResult{
		persistOutcome(s.store.Append(ctx, sessionID, domain.RoleUser, message), false),
		persistOutcome(s.store.Append(ctx, sessionID, domain.RoleAssistant, reply), false),
		persistOutcome(s.store.RecordTurn(ctx, sessionID, message, reply), false),
	}
	for _, r := range results {
		if r.Err != nil {
			s.logger.Warn("chat persistence failed", zap.String("session_id", sessionID), zap.Error(r.Err))
		}
	}
	return worst(results...)
}

// clientHistory filtra el historial que manda el cliente y lo recorta al tope.
func clientHistory(in []domain.Message, limit int) []domain.Message {
	out := make([]domain.Message, 0, len(in))
	for _, m := range in {
		if domain.ValidRole(m.Role) && strings.TrimSpace(m.Content) != "" {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
