package repository

import (
	"database/sql"

	"lernbuddy/internal/database"
	"lernbuddy/internal/models"

	"github.com/google/uuid"
)

// AssessmentRepository handles subject assessment database operations
type AssessmentRepository struct {
	db *database.DB
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db *database.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

const assessmentColumns = `
	id, user_id, subject, estimated_level, actual_grade_level, discrepancy,
	is_priority, confidence, questions_asked, answers_given, assessment_date
`

// ListPriority retrieves up to limit priority subjects for a user, largest
// grade gap first
func (r *AssessmentRepository) ListPriority(userID string, limit int) ([]models.SubjectAssessment, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM subject_assessments
		WHERE user_id = ? AND is_priority = ?
		ORDER BY discrepancy DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, userID, true, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAssessments(rows)
}

// ListByUser retrieves all assessments for a user
func (r *AssessmentRepository) ListByUser(userID string) ([]models.SubjectAssessment, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM subject_assessments
		WHERE user_id = ?
		ORDER BY subject ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAssessments(rows)
}

// Upsert replaces any existing assessment for the user/subject pair
func (r *AssessmentRepository) Upsert(assessment *models.SubjectAssessment) error {
	if assessment.ID == "" {
		assessment.ID = uuid.NewString()
	}

	// Last write wins per user/subject; a re-taken assessment replaces the old one
	deleteQuery := "DELETE FROM subject_assessments WHERE user_id = ? AND subject = ?"
	if _, err := r.db.Exec(deleteQuery, assessment.UserID, assessment.Subject); err != nil {
		return err
	}

	insertQuery := `
		INSERT INTO subject_assessments
			(id, user_id, subject, estimated_level, actual_grade_level,
			 discrepancy, is_priority, confidence, questions_asked, answers_given)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(insertQuery,
		assessment.ID,
		assessment.UserID,
		assessment.Subject,
		assessment.EstimatedLevel,
		assessment.ActualGradeLevel,
		assessment.Discrepancy,
		assessment.IsPriority,
		assessment.Confidence,
		assessment.QuestionsAsked,
		assessment.AnswersGiven,
	)
	return err
}

func collectAssessments(rows *sql.Rows) ([]models.SubjectAssessment, error) {
	var assessments []models.SubjectAssessment
	for rows.Next() {
		var a models.SubjectAssessment
		err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Subject,
			&a.EstimatedLevel,
			&a.ActualGradeLevel,
			&a.Discrepancy,
			&a.IsPriority,
			&a.Confidence,
			&a.QuestionsAsked,
			&a.AnswersGiven,
			&a.AssessmentDate,
		)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}
