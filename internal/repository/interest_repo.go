package repository

import (
	"lernbuddy/internal/database"
	"lernbuddy/internal/models"

	"github.com/google/uuid"
)

// InterestRepository handles user interest database operations
type InterestRepository struct {
	db *database.DB
}

// NewInterestRepository creates a new interest repository
func NewInterestRepository(db *database.DB) *InterestRepository {
	return &InterestRepository{db: db}
}

// ListByUser retrieves a user's interests ordered by intensity, strongest first
func (r *InterestRepository) ListByUser(userID string, limit int) ([]models.Interest, error) {
	query := `
		SELECT id, user_id, interest, intensity, created_at
		FROM user_interests
		WHERE user_id = ?
		ORDER BY intensity DESC, created_at ASC
		LIMIT ?
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interests []models.Interest
	for rows.Next() {
		var interest models.Interest
		err := rows.Scan(
			&interest.ID,
			&interest.UserID,
			&interest.Interest,
			&interest.Intensity,
			&interest.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		interests = append(interests, interest)
	}

	return interests, rows.Err()
}

// Create inserts a new interest and returns it
func (r *InterestRepository) Create(userID, interest string, intensity int) (*models.Interest, error) {
	id := uuid.NewString()
	query := `
		INSERT INTO user_interests (id, user_id, interest, intensity)
		VALUES (?, ?, ?, ?)
	`

	if _, err := r.db.Exec(query, id, userID, interest, intensity); err != nil {
		return nil, err
	}

	return &models.Interest{
		ID:        id,
		UserID:    userID,
		Interest:  interest,
		Intensity: intensity,
	}, nil
}

// Delete removes an interest owned by the given user
func (r *InterestRepository) Delete(id, userID string) error {
	query := "DELETE FROM user_interests WHERE id = ? AND user_id = ?"
	_, err := r.db.Exec(query, id, userID)
	return err
}
