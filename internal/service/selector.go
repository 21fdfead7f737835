package service

import (
	"fmt"
	"math/rand"

	"lernbuddy/internal/models"
	"lernbuddy/internal/repository"
)

// Narrow store views so the cascade can be tested against fakes
type assessmentStore interface {
	ListPriority(userID string, limit int) ([]models.SubjectAssessment, error)
}

type progressStore interface {
	ListActive(userID string) ([]repository.ProgressWithSubject, error)
	GetTopRanked(userID string) (*repository.ProgressWithSubject, error)
	Create(progress *models.CompetencyProgress) error
}

type competencyStore interface {
	GetByID(id string) (*models.Competency, error)
	FindMandatory(subject string, gradeLevel int, federalState string, limit int) ([]models.Competency, error)
	FindMandatoryForGrade(gradeLevel int, federalState string, limit int) ([]models.Competency, error)
}

// Selection is the competency target for one chat turn
type Selection struct {
	Competency        *models.Competency
	Progress          *models.CompetencyProgress
	IsPrioritySubject bool
}

// SelectorService picks the competency the buddy should steer the
// conversation toward. The random source is injected so the candidate
// pick in the fallback steps is reproducible in tests.
type SelectorService struct {
	assessments  assessmentStore
	progress     progressStore
	competencies competencyStore
	rng          *rand.Rand
}

// NewSelectorService creates a new selector service
func NewSelectorService(assessments assessmentStore, progress progressStore, competencies competencyStore, rng *rand.Rand) *SelectorService {
	return &SelectorService{
		assessments:  assessments,
		progress:     progress,
		competencies: competencies,
		rng:          rng,
	}
}

// Select runs the selection cascade for the user. Each step is tried only if
// the previous one produced nothing; a nil selection with nil error means the
// conversation proceeds without a curriculum target.
//
//  1. Existing progress whose subject is a priority subject, ordered by
//     struggles then lowest confidence.
//  2. The top-ranked existing progress row regardless of subject.
//  3. A new progress row for a random mandatory competency of the top
//     priority subject at its estimated level (priority 10).
//  4. A new progress row for a random mandatory competency at the learner's
//     grade level (priority 0).
func (s *SelectorService) Select(userID string, profile *models.Profile) (*Selection, error) {
	priorities, err := s.assessments.ListPriority(userID, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to load priority subjects: %w", err)
	}

	prioritySubjects := make(map[string]bool, len(priorities))
	for _, a := range priorities {
		prioritySubjects[a.Subject] = true
	}

	// Step 1: active progress within a priority subject
	if len(priorities) > 0 {
		active, err := s.progress.ListActive(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load active progress: %w", err)
		}
		for i := range active {
			if prioritySubjects[active[i].Subject] {
				return s.selectionFor(&active[i].CompetencyProgress, true)
			}
		}
	}

	// Step 2: top-ranked progress regardless of subject
	top, err := s.progress.GetTopRanked(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load top progress: %w", err)
	}
	if top != nil {
		return s.selectionFor(&top.CompetencyProgress, prioritySubjects[top.Subject])
	}

	// Step 3: start a new competency from the top priority subject
	if len(priorities) > 0 {
		a := priorities[0]
		candidates, err := s.competencies.FindMandatory(a.Subject, a.EstimatedLevel, profile.FederalState, 10)
		if err != nil {
			return nil, fmt.Errorf("failed to load competencies for %s: %w", a.Subject, err)
		}
		if len(candidates) > 0 {
			competency := candidates[s.rng.Intn(len(candidates))]
			return s.startProgress(userID, &competency, 10, true, a.EstimatedLevel)
		}
	}

	// Step 4: start a new competency at the learner's grade level
	candidates, err := s.competencies.FindMandatoryForGrade(profile.GradeLevel, profile.FederalState, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load grade competencies: %w", err)
	}
	if len(candidates) > 0 {
		competency := candidates[s.rng.Intn(len(candidates))]
		return s.startProgress(userID, &competency, 0, false, profile.GradeLevel)
	}

	return nil, nil
}

func (s *SelectorService) selectionFor(progress *models.CompetencyProgress, isPriority bool) (*Selection, error) {
	competency, err := s.competencies.GetByID(progress.CompetencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load competency %s: %w", progress.CompetencyID, err)
	}
	if competency == nil {
		return nil, nil
	}
	return &Selection{
		Competency:        competency,
		Progress:          progress,
		IsPrioritySubject: isPriority,
	}, nil
}

func (s *SelectorService) startProgress(userID string, competency *models.Competency, priority int, isPriority bool, estimatedLevel int) (*Selection, error) {
	progress := &models.CompetencyProgress{
		UserID:         userID,
		CompetencyID:   competency.ID,
		Status:         models.StatusNotStarted,
		Priority:       priority,
		IsPriority:     isPriority,
		EstimatedLevel: estimatedLevel,
	}
	if err := s.progress.Create(progress); err != nil {
		return nil, fmt.Errorf("failed to create progress: %w", err)
	}
	return &Selection{
		Competency:        competency,
		Progress:          progress,
		IsPrioritySubject: isPriority,
	}, nil
}
