package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"lernbuddy/internal/models"
	"lernbuddy/internal/repository"
)

// AssessmentHandler records and lists onboarding subject assessments
type AssessmentHandler struct {
	assessments *repository.AssessmentRepository
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessments *repository.AssessmentRepository) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments}
}

// List returns all of the learner's subject assessments
func (h *AssessmentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	assessments, err := h.assessments.ListByUser(userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Einschätzungen konnten nicht geladen werden", "failed to list assessments", err)
		return
	}

	respondWithJSON(w, http.StatusOK, toAssessmentResponses(assessments))
}

type assessmentCreateRequest struct {
	Subject          string `json:"subject"`
	EstimatedLevel   int    `json:"estimatedLevel"`
	ActualGradeLevel int    `json:"actualGradeLevel"`
	Confidence       int    `json:"confidence"`
	QuestionsAsked   int    `json:"questionsAsked"`
	AnswersGiven     int    `json:"answersGiven"`
}

// Create records the outcome of an onboarding assessment for one subject.
// A subject becomes a priority when the estimated level trails the actual
// grade by two or more grades.
func (h *AssessmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	var req assessmentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Ungültige Anfrage", "failed to decode assessment", err)
		return
	}

	if req.Subject == "" {
		respondWithError(w, http.StatusBadRequest, "Bitte gib ein Fach an", "", nil)
		return
	}
	if req.EstimatedLevel < 1 || req.ActualGradeLevel < 1 {
		respondWithError(w, http.StatusBadRequest, "Bitte gib gültige Klassenstufen an", "", nil)
		return
	}

	discrepancy := req.ActualGradeLevel - req.EstimatedLevel
	assessment := &models.SubjectAssessment{
		UserID:           userID,
		Subject:          req.Subject,
		EstimatedLevel:   req.EstimatedLevel,
		ActualGradeLevel: req.ActualGradeLevel,
		Discrepancy:      discrepancy,
		IsPriority:       discrepancy >= models.PriorityDiscrepancy,
		Confidence:       req.Confidence,
		QuestionsAsked:   req.QuestionsAsked,
		AnswersGiven:     req.AnswersGiven,
		AssessmentDate:   time.Now(),
	}

	if err := h.assessments.Upsert(assessment); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Einschätzung konnte nicht gespeichert werden", "failed to save assessment", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, assessmentResponse{
		ID:               assessment.ID,
		Subject:          assessment.Subject,
		EstimatedLevel:   assessment.EstimatedLevel,
		ActualGradeLevel: assessment.ActualGradeLevel,
		Discrepancy:      assessment.Discrepancy,
		IsPriority:       assessment.IsPriority,
		Confidence:       assessment.Confidence,
		AssessmentDate:   assessment.AssessmentDate,
	})
}
