package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"ai-assistant/internal/domain"
	"ai-assistant/internal/llm"
)

const (
	DefaultMaxTokens    = 300
	DefaultHistoryTurns = 4

	systemPrompt = "You are a helpful support agent. Answer concisely, in no more than 3 sentences."
)

// InferenceObserver recibe latencia y resultado de cada llamada al modelo.
type InferenceObserver interface {
	ObserveInference(d time.Duration, err error)
}

// InferenceResponder delega en el LLM y cae a la estrategia fija si la llamada falla o viene vacia.
type InferenceResponder struct {
	client       llm.LLMClient
	fallback     Responder
	maxTokens    int
	historyTurns int
	observer     InferenceObserver
	logger       *zap.Logger
}

func NewInferenceResponder(
	client llm.LLMClient,
	fallback Responder,
	maxTokens, historyTurns int,
	observer InferenceObserver,
	logger *zap.Logger,
) *InferenceResponder {
	if fallback == nil {
		fallback = NewCannedResponder()
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if historyTurns < 0 {
		historyTurns = DefaultHistoryTurns
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InferenceResponder{
		client:       client,
		fallback:     fallback,
		maxTokens:    maxTokens,
		historyTurns: historyTurns,
		observer:     observer,
		logger:       logger,
	}
}

func (r *InferenceResponder) Respond(ctx context.Context, req ResponseRequest) string {
	messages := BuildPromptMessages(req, r.historyTurns)

	start := time.Now()
	text, err := r.client.Chat(ctx, messages, r.maxTokens)
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrEmptyResponse
	}
	if r.observer != nil {
		r.observer.ObserveInference(time.Since(start), err)
	}

	if err != nil {
		r.logger.Warn("inference failed, using canned response", zap.Error(err))
		return r.fallback.Respond(ctx, req)
	}
	return strings.TrimSpace(text)
}

// BuildPromptMessages arma preambulo de sistema + ultimos turnos del historial + mensaje del usuario.
func BuildPromptMessages(req ResponseRequest, historyTurns int) []llm.Message {
	prompt := systemPrompt
	if style := strings.ToLower(strings.TrimSpace(req.Style)); KnownStyle(style) {
		prompt += " Use a " + style + " tone."
	}

	history := req.History
	if historyTurns >= 0 && len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: prompt})
	for _, h := range history {
		if !domain.ValidRole(h.Role) || strings.TrimSpace(h.Content) == "" {
			continue
		}
		messages = append(messages, llm.Message{Role: h.Role, Content: h.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: req.Message})
	return messages
}
