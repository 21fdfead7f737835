package repository

import (
	"database/sql"
	"time"

	"lernbuddy/internal/database"
	"lernbuddy/internal/models"
)

// ProfileRepository handles learner profile database operations
type ProfileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByID retrieves a profile by user ID. Returns (nil, nil) when no profile exists.
func (r *ProfileRepository) GetByID(userID string) (*models.Profile, error) {
	query := `
		SELECT id, display_name, grade_level, federal_state, buddy_personality,
		       tts_enabled, created_at, updated_at
		FROM profiles
		WHERE id = ?
	`

	profile := &models.Profile{}
	var federalState sql.NullString

	err := r.db.QueryRow(query, userID).Scan(
		&profile.ID,
		&profile.DisplayName,
		&profile.GradeLevel,
		&federalState,
		&profile.BuddyPersonality,
		&profile.TTSEnabled,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if federalState.Valid {
		profile.FederalState = federalState.String
	}

	return profile, nil
}

// Create inserts a new profile
func (r *ProfileRepository) Create(profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, display_name, grade_level, federal_state, buddy_personality, tts_enabled)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		profile.ID,
		profile.DisplayName,
		profile.GradeLevel,
		nullString(profile.FederalState),
		profile.BuddyPersonality,
		profile.TTSEnabled,
	)
	return err
}

// Update writes the mutable profile fields
func (r *ProfileRepository) Update(profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = ?, grade_level = ?, federal_state = ?,
		    buddy_personality = ?, tts_enabled = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query,
		profile.DisplayName,
		profile.GradeLevel,
		nullString(profile.FederalState),
		profile.BuddyPersonality,
		profile.TTSEnabled,
		time.Now(),
		profile.ID,
	)
	return err
}

// nullString converts an empty string to a SQL NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullTime converts a nil time pointer to a SQL NULL
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
