package repository

import (
	"lernbuddy/internal/database"
	"lernbuddy/internal/models"

	"github.com/google/uuid"
)

// MessageRepository handles chat message database operations
type MessageRepository struct {
	db *database.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *database.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create persists a chat message
func (r *MessageRepository) Create(userID, sessionID, role, content string) error {
	query := `
		INSERT INTO messages (id, user_id, session_id, role, content)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, uuid.NewString(), userID, nullString(sessionID), role, content)
	return err
}

// ListBySession retrieves a session's messages in chronological order
func (r *MessageRepository) ListBySession(sessionID string) ([]models.Message, error) {
	query := `
		SELECT id, user_id, session_id, role, content, created_at
		FROM messages
		WHERE session_id = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		err := rows.Scan(&m.ID, &m.UserID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
