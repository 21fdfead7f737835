package handlers

import (
	"time"

	"lernbuddy/internal/models"
)

// Response shapes for the JSON API

type profileResponse struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	GradeLevel       int    `json:"gradeLevel"`
	FederalState     string `json:"federalState,omitempty"`
	BuddyPersonality string `json:"buddyPersonality"`
	TTSEnabled       bool   `json:"ttsEnabled"`
}

func toProfileResponse(p *models.Profile) profileResponse {
	return profileResponse{
		ID:               p.ID,
		DisplayName:      p.DisplayName,
		GradeLevel:       p.GradeLevel,
		FederalState:     p.FederalState,
		BuddyPersonality: p.BuddyPersonality,
		TTSEnabled:       p.TTSEnabled,
	}
}

type interestResponse struct {
	ID        string `json:"id"`
	Interest  string `json:"interest"`
	Intensity int    `json:"intensity"`
}

func toInterestResponses(interests []models.Interest) []interestResponse {
	out := make([]interestResponse, 0, len(interests))
	for _, i := range interests {
		out = append(out, interestResponse{ID: i.ID, Interest: i.Interest, Intensity: i.Intensity})
	}
	return out
}

type assessmentResponse struct {
	ID               string    `json:"id"`
	Subject          string    `json:"subject"`
	EstimatedLevel   int       `json:"estimatedLevel"`
	ActualGradeLevel int       `json:"actualGradeLevel"`
	Discrepancy      int       `json:"discrepancy"`
	IsPriority       bool      `json:"isPriority"`
	Confidence       int       `json:"confidence"`
	AssessmentDate   time.Time `json:"assessmentDate"`
}

func toAssessmentResponses(assessments []models.SubjectAssessment) []assessmentResponse {
	out := make([]assessmentResponse, 0, len(assessments))
	for _, a := range assessments {
		out = append(out, assessmentResponse{
			ID:               a.ID,
			Subject:          a.Subject,
			EstimatedLevel:   a.EstimatedLevel,
			ActualGradeLevel: a.ActualGradeLevel,
			Discrepancy:      a.Discrepancy,
			IsPriority:       a.IsPriority,
			Confidence:       a.Confidence,
			AssessmentDate:   a.AssessmentDate,
		})
	}
	return out
}

type packageResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Subject     string    `json:"subject,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toPackageResponse(p *models.TaskPackage) packageResponse {
	return packageResponse{
		ID:          p.ID,
		Title:       p.Title,
		Subject:     p.Subject,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

type taskResponse struct {
	ID                 string                     `json:"id"`
	PackageID          string                     `json:"packageId"`
	OriginalImageURL   string                     `json:"originalImageUrl"`
	SimplifiedContent  string                     `json:"simplifiedContent,omitempty"`
	TaskType           string                     `json:"taskType,omitempty"`
	InteractiveElement *models.InteractiveElement `json:"interactiveElement,omitempty"`
	Position           int                        `json:"position"`
	IsCompleted        bool                       `json:"isCompleted"`
}

func toTaskResponse(t *models.TaskItem) taskResponse {
	return taskResponse{
		ID:                 t.ID,
		PackageID:          t.PackageID,
		OriginalImageURL:   t.OriginalImageURL,
		SimplifiedContent:  t.SimplifiedContent,
		TaskType:           t.TaskType,
		InteractiveElement: t.InteractiveElement,
		Position:           t.Position,
		IsCompleted:        t.IsCompleted,
	}
}

func toTaskResponses(items []models.TaskItem) []taskResponse {
	out := make([]taskResponse, 0, len(items))
	for i := range items {
		out = append(out, toTaskResponse(&items[i]))
	}
	return out
}
