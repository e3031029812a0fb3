package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ai-assistant/internal/domain"
	"ai-assistant/internal/service"
)

const exportFilename = "ai-assistant-export.json"

// ChatHandler mantiene dependencias para los endpoints de chat y export.
type ChatHandler struct {
	logger *zap.Logger
	chat   *service.ChatService
	store  *service.ConversationStore
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, chat *service.ChatService, store *service.ConversationStore) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{logger: logger, chat: chat, store: store}
}

// historyEntry acepta timestamps numericos o ISO del cliente; solo se usan role y content.
type historyEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatSettings struct {
	ResponseStyle string `json:"responseStyle"`
}

// PostChat maneja POST /api/chat.
func (h *ChatHandler) PostChat(c *gin.Context) {
	var req struct {
		Message   string         `json:"message" binding:"required"`
		SessionID string         `json:"sessionId"`
		History   []historyEntry `json:"history"`
		Settings  *chatSettings  `json:"settings"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		h.chatFailed(c)
		return
	}

	chatReq := service.ChatRequest{
		Message:   req.Message,
		SessionID: req.SessionID,
		History:   make([]domain.Message, 0, len(req.History)),
	}
	for _, entry := range req.History {
		chatReq.History = append(chatReq.History, domain.Message{Role: entry.Role, Content: entry.Content})
	}
	if req.Settings != nil {
		chatReq.Style = req.Settings.ResponseStyle
	}

	res, err := h.chat.Reply(c.Request.Context(), chatReq)
	if err != nil {
		h.logger.Error("chat request failed", zap.Error(err))
		h.chatFailed(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":  res.Response,
		"timestamp": res.Timestamp,
		"messageId": res.MessageID,
		"sessionId": res.SessionID,
	})
}

func (h *ChatHandler) chatFailed(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":    "Failed to process message",
		"response": service.FallbackResponse,
	})
}

// Export maneja GET /api/export.
func (h *ChatHandler) Export(c *gin.Context) {
	export := domain.Export{
		ExportDate:    time.Now().UTC().Format(time.RFC3339Nano),
		Conversations: h.store.Export(c.Request.Context()),
	}
	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.JSON(http.StatusOK, export)
}
