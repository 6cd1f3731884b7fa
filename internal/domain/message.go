package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id,omitempty"`
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// FromUser indica si el mensaje lo escribio el usuario (no el asistente).
func (m Message) FromUser() bool {
	return m.Role != RoleAssistant
}
