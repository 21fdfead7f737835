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

// ProgressRepository handles competency progress database operations
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// ProgressWithSubject joins a progress row with its competency's subject and title
type ProgressWithSubject struct {
	models.CompetencyProgress
	Subject string
	Title   string
}

const progressColumns = `
	p.id, p.user_id, p.competency_id, p.status, p.confidence_level, p.priority,
	p.struggles_count, p.estimated_level, p.is_priority, p.last_practiced_at,
	p.last_struggle_at, p.weakness_indicators, p.created_at, p.updated_at,
	c.subject, c.title
`

// ListActive retrieves not-yet-mastered progress rows for a user, hardest first
// (most struggles, then lowest confidence)
func (r *ProgressRepository) ListActive(userID string) ([]ProgressWithSubject, error) {
	query := `
		SELECT ` + progressColumns + `
		FROM competency_progress p
		JOIN competencies c ON c.id = p.competency_id
		WHERE p.user_id = ? AND p.status IN (?, ?)
		ORDER BY p.struggles_count DESC, p.confidence_level ASC
	`

	rows, err := r.db.Query(query, userID, models.StatusNotStarted, models.StatusInProgress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProgress(rows)
}

// GetTopRanked retrieves the single highest-ranked active progress row for a
// user by (priority desc, struggles desc, confidence asc). Returns (nil, nil)
// when the user has no active progress.
func (r *ProgressRepository) GetTopRanked(userID string) (*ProgressWithSubject, error) {
	query := `
		SELECT ` + progressColumns + `
		FROM competency_progress p
		JOIN competencies c ON c.id = p.competency_id
		WHERE p.user_id = ? AND p.status IN (?, ?)
		ORDER BY p.priority DESC, p.struggles_count DESC, p.confidence_level ASC
		LIMIT 1
	`

	rows, err := r.db.Query(query, userID, models.StatusNotStarted, models.StatusInProgress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results, err := collectProgress(rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// ListByUser retrieves all progress rows for a user, most recently practiced first
func (r *ProgressRepository) ListByUser(userID string) ([]ProgressWithSubject, error) {
	query := `
		SELECT ` + progressColumns + `
		FROM competency_progress p
		JOIN competencies c ON c.id = p.competency_id
		WHERE p.user_id = ?
		ORDER BY p.last_practiced_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProgress(rows)
}

// Create inserts a new progress row, assigning an ID when none is set
func (r *ProgressRepository) Create(progress *models.CompetencyProgress) error {
	if progress.ID == "" {
		progress.ID = uuid.NewString()
	}
	if progress.Status == "" {
		progress.Status = models.StatusNotStarted
	}

	weakness, err := marshalWeakness(progress.Weakness)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO competency_progress
			(id, user_id, competency_id, status, confidence_level, priority,
			 struggles_count, estimated_level, is_priority, last_practiced_at,
			 last_struggle_at, weakness_indicators)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		progress.ID,
		progress.UserID,
		progress.CompetencyID,
		progress.Status,
		progress.ConfidenceLevel,
		progress.Priority,
		progress.StrugglesCount,
		progress.EstimatedLevel,
		progress.IsPriority,
		nullTime(progress.LastPracticedAt),
		nullTime(progress.LastStruggleAt),
		weakness,
	)
	return err
}

// Update writes the mutable fields of a progress row
func (r *ProgressRepository) Update(progress *models.CompetencyProgress) error {
	weakness, err := marshalWeakness(progress.Weakness)
	if err != nil {
		return err
	}

	query := `
		UPDATE competency_progress
		SET status = ?, confidence_level = ?, priority = ?, struggles_count = ?,
		    estimated_level = ?, is_priority = ?, last_practiced_at = ?,
		    last_struggle_at = ?, weakness_indicators = ?, updated_at = ?
		WHERE id = ?
	`

	_, err = r.db.Exec(query,
		progress.Status,
		progress.ConfidenceLevel,
		progress.Priority,
		progress.StrugglesCount,
		progress.EstimatedLevel,
		progress.IsPriority,
		nullTime(progress.LastPracticedAt),
		nullTime(progress.LastStruggleAt),
		weakness,
		time.Now(),
		progress.ID,
	)
	return err
}

func marshalWeakness(w models.WeaknessIndicators) (sql.NullString, error) {
	if len(w.Indicators) == 0 && w.LastDetected.IsZero() {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(w)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal weakness indicators: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func collectProgress(rows *sql.Rows) ([]ProgressWithSubject, error) {
	var results []ProgressWithSubject
	for rows.Next() {
		var p ProgressWithSubject
		var lastPracticed, lastStruggle sql.NullTime
		var weakness sql.NullString

		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.CompetencyID,
			&p.Status,
			&p.ConfidenceLevel,
			&p.Priority,
			&p.StrugglesCount,
			&p.EstimatedLevel,
			&p.IsPriority,
			&lastPracticed,
			&lastStruggle,
			&weakness,
			&p.CreatedAt,
			&p.UpdatedAt,
			&p.Subject,
			&p.Title,
		)
		if err != nil {
			return nil, err
		}

		if lastPracticed.Valid {
			p.LastPracticedAt = &lastPracticed.Time
		}
		if lastStruggle.Valid {
			p.LastStruggleAt = &lastStruggle.Time
		}
		if weakness.Valid && weakness.String != "" {
			if err := json.Unmarshal([]byte(weakness.String), &p.Weakness); err != nil {
				return nil, fmt.Errorf("failed to unmarshal weakness indicators: %w", err)
			}
		}

		results = append(results, p)
	}
	return results, rows.Err()
}
