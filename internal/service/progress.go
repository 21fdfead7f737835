package service

import (
	"fmt"
	"time"

	"lernbuddy/internal/models"
)

// Confidence deltas applied per turn
const (
	deltaWeakness       = 5
	deltaHighEngagement = 25
	deltaNormal         = 20
	deltaReduced        = 15
)

// minTurnsForProgress is the number of learner turns a conversation needs
// before progress updates start
const minTurnsForProgress = 3

// taskCompletionTurns is the number of learner turns after which an active
// task can be considered worked through
const taskCompletionTurns = 5

type progressWriter interface {
	Update(progress *models.CompetencyProgress) error
}

// TurnOutcome summarizes what the progress update decided for one turn
type TurnOutcome struct {
	WeaknessDetected bool
	Tags             []string
}

// ProgressService adjusts competency progress after each chat turn
type ProgressService struct {
	progress progressWriter
	detector WeaknessDetector
}

// NewProgressService creates a new progress service
func NewProgressService(progress progressWriter, detector WeaknessDetector) *ProgressService {
	return &ProgressService{progress: progress, detector: detector}
}

// ApplyTurn updates the target progress based on the learner's latest message
// and the engagement classification, then persists it. Callers should only
// invoke this once the conversation has at least minTurnsForProgress learner
// turns and a target competency was selected.
func (s *ProgressService) ApplyTurn(progress *models.CompetencyProgress, lastMessage string, learnerTurns int, engagementLevel string) (*TurnOutcome, error) {
	now := time.Now()
	tags := s.detector.Detect(lastMessage, learnerTurns)

	if len(tags) > 0 {
		progress.Weakness.Add(tags, now)
		progress.StrugglesCount++
		progress.LastStruggleAt = &now
		progress.ConfidenceLevel = models.ClampConfidence(progress.ConfidenceLevel + deltaWeakness)
		progress.Status = models.StatusInProgress
	} else {
		delta := deltaReduced
		switch engagementLevel {
		case models.EngagementHigh:
			delta = deltaHighEngagement
		case models.EngagementNormal:
			delta = deltaNormal
		}
		progress.ConfidenceLevel = models.ClampConfidence(progress.ConfidenceLevel + delta)
		progress.Status = models.StatusForConfidence(progress.ConfidenceLevel)
	}

	progress.LastPracticedAt = &now

	if err := s.progress.Update(progress); err != nil {
		return nil, fmt.Errorf("failed to persist progress: %w", err)
	}

	return &TurnOutcome{
		WeaknessDetected: len(tags) > 0,
		Tags:             tags,
	}, nil
}

// TaskComplete reports whether the active task counts as worked through:
// enough learner turns, and either a clean turn or solid engagement.
func TaskComplete(learnerTurns int, weaknessDetected bool, engagementLevel string) bool {
	if learnerTurns < taskCompletionTurns {
		return false
	}
	return !weaknessDetected ||
		engagementLevel == models.EngagementNormal ||
		engagementLevel == models.EngagementHigh
}
