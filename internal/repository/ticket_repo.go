package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ai-assistant/internal/domain"
)

const ticketKeyPrefix = "ticket:"

type TicketRepository interface {
	Create(ctx context.Context, ticket domain.Ticket) error
	Get(ctx context.Context, id string) (domain.Ticket, error)
}

type KVTicketRepository struct {
	store KVStore
}

func NewKVTicketRepository(store KVStore) *KVTicketRepository {
	return &KVTicketRepository{store: store}
}

func (r *KVTicketRepository) Create(ctx context.Context, ticket domain.Ticket) error {
	if ticket.ID == "" {
		return errors.New("ticket without id")
	}
	payload, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("marshal ticket: %w", err)
	}
	return r.store.Put(ctx, ticketKeyPrefix+ticket.ID, payload)
}

func (r *KVTicketRepository) Get(ctx context.Context, id string) (domain.Ticket, error) {
	raw, err := r.store.Get(ctx, ticketKeyPrefix+id)
	if err != nil {
		return domain.Ticket{}, err
	}
	var ticket domain.Ticket
	if err := json.Unmarshal(raw, &ticket); err != nil {
		return domain.Ticket{}, fmt.Errorf("unmarshal ticket: %w", err)
	}
	return ticket, nil
}
