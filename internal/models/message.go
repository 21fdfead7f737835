package models

import "time"

// Chat roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is one turn of the conversation as sent by the client
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message is a persisted chat message tied to a learning session
type Message struct {
	ID        string
	UserID    string
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}
