package repository

import (
	"database/sql"

	"lernbuddy/internal/database"
	"lernbuddy/internal/models"
)

// CompetencyRepository handles curriculum competency lookups
type CompetencyRepository struct {
	db *database.DB
}

// NewCompetencyRepository creates a new competency repository
func NewCompetencyRepository(db *database.DB) *CompetencyRepository {
	return &CompetencyRepository{db: db}
}

// GetByID retrieves a competency by ID. Returns (nil, nil) when not found.
func (r *CompetencyRepository) GetByID(id string) (*models.Competency, error) {
	query := `
		SELECT id, subject, grade_level, competency_domain, title, description,
		       is_mandatory, federal_state, requirement_level, created_at
		FROM competencies
		WHERE id = ?
	`

	row := r.db.QueryRow(query, id)
	competency, err := scanCompetency(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return competency, err
}

// FindMandatory retrieves mandatory competencies for a subject and grade level.
// Competencies without a federal state apply everywhere; when federalState is
// set, state-specific rows for that state are included as well.
func (r *CompetencyRepository) FindMandatory(subject string, gradeLevel int, federalState string, limit int) ([]models.Competency, error) {
	query := `
		SELECT id, subject, grade_level, competency_domain, title, description,
		       is_mandatory, federal_state, requirement_level, created_at
		FROM competencies
		WHERE subject = ? AND grade_level = ? AND is_mandatory = ?
		  AND (federal_state IS NULL OR federal_state = ?)
		LIMIT ?
	`

	rows, err := r.db.Query(query, subject, gradeLevel, true, federalState, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCompetencies(rows)
}

// FindMandatoryForGrade retrieves mandatory competencies across all subjects at a grade level
func (r *CompetencyRepository) FindMandatoryForGrade(gradeLevel int, federalState string, limit int) ([]models.Competency, error) {
	query := `
		SELECT id, subject, grade_level, competency_domain, title, description,
		       is_mandatory, federal_state, requirement_level, created_at
		FROM competencies
		WHERE grade_level = ? AND is_mandatory = ?
		  AND (federal_state IS NULL OR federal_state = ?)
		LIMIT ?
	`

	rows, err := r.db.Query(query, gradeLevel, true, federalState, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCompetencies(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCompetency(row rowScanner) (*models.Competency, error) {
	var competency models.Competency
	var federalState sql.NullString

	err := row.Scan(
		&competency.ID,
		&competency.Subject,
		&competency.GradeLevel,
		&competency.CompetencyDomain,
		&competency.Title,
		&competency.Description,
		&competency.IsMandatory,
		&federalState,
		&competency.RequirementLevel,
		&competency.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if federalState.Valid {
		competency.FederalState = federalState.String
	}

	return &competency, nil
}

func collectCompetencies(rows *sql.Rows) ([]models.Competency, error) {
	var competencies []models.Competency
	for rows.Next() {
		competency, err := scanCompetency(rows)
		if err != nil {
			return nil, err
		}
		competencies = append(competencies, *competency)
	}
	return competencies, rows.Err()
}
