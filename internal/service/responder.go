package service

import (
	"context"

	"go.uber.org/zap"

	"ai-assistant/internal/domain"
	"ai-assistant/internal/llm"
)

// ResponseRequest es la entrada comun de las estrategias de respuesta.
type ResponseRequest struct {
	Message string
	Style   string
	History []domain.Message
}

// Responder genera el texto de respuesta. Nunca falla: cada estrategia tiene su fallback.
type Responder interface {
	Respond(ctx context.Context, req ResponseRequest) string
}

// NewResponder elige inferencia si hay cliente LLM; si no, respuestas fijas.
func NewResponder(
	client llm.LLMClient,
	maxTokens, historyTurns int,
	observer InferenceObserver,
	logger *zap.Logger,
) Responder {
	canned := NewCannedResponder()
	if client == nil {
		return canned
	}
	return NewInferenceResponder(client, canned, maxTokens, historyTurns, observer, logger)
}
