package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"lernbuddy/internal/database"
	"lernbuddy/internal/models"

	"github.com/google/uuid"
)

// SessionRepository handles learning session database operations
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// GetOpen retrieves the user's open session (ended_at IS NULL).
// Returns (nil, nil) when the user has no open session.
func (r *SessionRepository) GetOpen(userID string) (*models.LearningSession, error) {
	query := `
		SELECT id, user_id, started_at, ended_at, engagement_level, metrics
		FROM learning_sessions
		WHERE user_id = ? AND ended_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1
	`

	session := &models.LearningSession{}
	var endedAt sql.NullTime
	var engagement, metrics sql.NullString

	err := r.db.QueryRow(query, userID).Scan(
		&session.ID,
		&session.UserID,
		&session.StartedAt,
		&endedAt,
		&engagement,
		&metrics,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if endedAt.Valid {
		session.EndedAt = &endedAt.Time
	}
	if engagement.Valid {
		session.EngagementLevel = engagement.String
	}
	if metrics.Valid && metrics.String != "" {
		if err := json.Unmarshal([]byte(metrics.String), &session.Metrics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session metrics: %w", err)
		}
	}

	return session, nil
}

// Create opens a new session for a user
func (r *SessionRepository) Create(userID string) (*models.LearningSession, error) {
	session := &models.LearningSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartedAt: time.Now(),
	}

	query := "INSERT INTO learning_sessions (id, user_id, started_at) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, session.ID, session.UserID, session.StartedAt); err != nil {
		return nil, err
	}

	return session, nil
}

// UpdateMetrics persists the rolling metric windows and engagement level
func (r *SessionRepository) UpdateMetrics(session *models.LearningSession) error {
	metrics, err := json.Marshal(session.Metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal session metrics: %w", err)
	}

	query := `
		UPDATE learning_sessions
		SET engagement_level = ?, metrics = ?
		WHERE id = ?
	`

	_, err = r.db.Exec(query, session.EngagementLevel, string(metrics), session.ID)
	return err
}

// End closes a session
func (r *SessionRepository) End(sessionID string) error {
	query := "UPDATE learning_sessions SET ended_at = ? WHERE id = ? AND ended_at IS NULL"
	_, err := r.db.Exec(query, time.Now(), sessionID)
	return err
}

// CloseStale ends open sessions whose last message is older than the cutoff.
// Sessions without any message fall back to their start time.
func (r *SessionRepository) CloseStale(cutoff time.Time) (int64, error) {
	query := `
		UPDATE learning_sessions
		SET ended_at = ?
		WHERE ended_at IS NULL
		  AND COALESCE(
			(SELECT MAX(m.created_at) FROM messages m WHERE m.session_id = learning_sessions.id),
			started_at
		  ) < ?
	`

	result, err := r.db.Exec(query, time.Now(), cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CountRecent counts sessions started for a user since the given time
func (r *SessionRepository) CountRecent(userID string, since time.Time) (int, error) {
	query := "SELECT COUNT(*) FROM learning_sessions WHERE user_id = ? AND started_at >= ?"

	var count int
	err := r.db.QueryRow(query, userID, since).Scan(&count)
	return count, err
}
