package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message es una entrada del historial de una sesion. Inmutable una vez escrita.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // unix millis
}

// NewMessage arma un mensaje con timestamp actual en milisegundos.
func NewMessage(role, content string, now time.Time) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: now.UnixMilli(),
	}
}

// ValidRole reporta si el rol es uno de los que se persisten en historial.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAssistant
}
