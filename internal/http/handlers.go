package http

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ai-assistant/internal/service"
)

//go:embed static/index.html
var indexHTML []byte

func serveIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// SettingsHandler expone los settings del tenant.
type SettingsHandler struct {
	logger   *zap.Logger
	settings *service.SettingsService
}

func NewSettingsHandler(logger *zap.Logger, settings *service.SettingsService) *SettingsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsHandler{logger: logger, settings: settings}
}

// SaveSettings maneja POST /api/settings.
func (h *SettingsHandler) SaveSettings(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		h.logger.Warn("invalid settings request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	res, err := h.settings.Save(c.Request.Context(), json.RawMessage(raw))
	if err != nil {
		if !errors.Is(err, service.ErrInvalidInput) {
			h.logger.Error("save settings failed", zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}
	if res.Failed() {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to save settings",
			"status":  res.Status,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Settings saved successfully",
		"status":  res.Status,
	})
}

// GetSettings maneja GET /api/settings.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", h.settings.Get(c.Request.Context()))
}

// TicketHandler crea tickets de soporte.
type TicketHandler struct {
	logger  *zap.Logger
	tickets *service.TicketService
}

func NewTicketHandler(logger *zap.Logger, tickets *service.TicketService) *TicketHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketHandler{logger: logger, tickets: tickets}
}

// CreateTicket maneja POST /api/tickets. Un body invalido igual genera un ticket vacio.
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req struct {
		Subject     string `json:"subject"`
		Description string `json:"description"`
		SessionID   string `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid ticket request", zap.Error(err))
	}

	ticket, res := h.tickets.Create(c.Request.Context(), service.TicketRequest{
		Subject:     req.Subject,
		Description: req.Description,
		SessionID:   req.SessionID,
	})

	if res.Failed() {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":  false,
			"message":  "Failed to create ticket",
			"ticketId": ticket.ID,
			"status":   res.Status,
		})
		return
	}

	message := "Ticket created successfully"
	if res.Status != service.PersistOK {
		message = "Ticket logged locally"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  message,
		"ticketId": ticket.ID,
		"status":   res.Status,
	})
}

// StatusHandler sirve GET /api/status.
type StatusHandler struct {
	status *service.StatusService
}

func NewStatusHandler(status *service.StatusService) *StatusHandler {
	return &StatusHandler{status: status}
}

func (h *StatusHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.status.Status())
}
