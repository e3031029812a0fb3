package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ai-assistant/internal/domain"
	"ai-assistant/internal/repository"
)

type TicketRequest struct {
	Subject     string
	Description string
	SessionID   string
}

// TicketService crea tickets de soporte. El ticket se devuelve aunque no se haya podido guardar.
type TicketService struct {
	repo   repository.TicketRepository
	strict bool
	logger *zap.Logger
	now    func() time.Time
}

func NewTicketService(repo repository.TicketRepository, strict bool, logger *zap.Logger) *TicketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		repo:   repo,
		strict: strict,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *TicketService) Create(ctx context.Context, req TicketRequest) (domain.Ticket, PersistResult) {
	ticket := domain.Ticket{
		ID:          newTicketID(),
		Subject:     strings.TrimSpace(req.Subject),
		Description: strings.TrimSpace(req.Description),
		SessionID:   strings.TrimSpace(req.SessionID),
		Status:      domain.TicketStatusNew,
		CreatedAt:   s.now().Format(time.RFC3339Nano),
	}

	if s.repo == nil {
		s.logger.Info("ticket logged locally", zap.String("ticket_id", ticket.ID), zap.String("subject", ticket.Subject))
		return ticket, persistOutcome(ErrStoreNotBound, false)
	}

	err := s.repo.Create(ctx, ticket)
	if err != nil {
		s.logger.Warn("ticket write failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}
	return ticket, persistOutcome(err, s.strict)
}

func newTicketID() string {
	return "TKT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}
