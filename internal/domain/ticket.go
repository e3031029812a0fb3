package domain

const TicketStatusNew = "new"

// Ticket de soporte. Se escribe una sola vez; el estado siempre arranca en "new".
type Ticket struct {
	ID          string `json:"id"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	SessionID   string `json:"sessionId"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}
