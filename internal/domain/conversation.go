package domain

import "time"

// ConversationRecord guarda un turno completo (pregunta + respuesta) bajo su propia clave.
type ConversationRecord struct {
	ID          string `json:"id"`
	UserMessage string `json:"userMessage"`
	AIResponse  string `json:"aiResponse"`
	Timestamp   string `json:"timestamp"` // RFC3339
	SessionID   string `json:"sessionId,omitempty"`
}

// Time parsea el timestamp del registro; devuelve el zero value si no es valido.
func (r ConversationRecord) Time() time.Time {
	ts, err := time.Parse(time.RFC3339Nano, r.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// Export es el documento devuelto por GET /api/export.
type Export struct {
	ExportDate    string               `json:"exportDate"`
	Conversations []ConversationRecord `json:"conversations"`
}
