package models

import "time"

// Progress status values derived from the confidence level
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusMastered   = "mastered"
)

// MasteryThreshold is the confidence level at which a competency counts as mastered
const MasteryThreshold = 80

// MaxWeaknessIndicators caps the stored weakness tag history
const MaxWeaknessIndicators = 10

// WeaknessIndicators records detected struggle signals for a competency
type WeaknessIndicators struct {
	LastDetected time.Time `json:"lastDetected"`
	Indicators   []string  `json:"indicators"`
}

// Add appends tags to the indicator history, keeping only the most recent entries
func (w *WeaknessIndicators) Add(tags []string, now time.Time) {
	w.Indicators = append(w.Indicators, tags...)
	if len(w.Indicators) > MaxWeaknessIndicators {
		w.Indicators = w.Indicators[len(w.Indicators)-MaxWeaknessIndicators:]
	}
	w.LastDetected = now
}

// CompetencyProgress tracks a learner's state on a single competency
type CompetencyProgress struct {
	ID              string
	UserID          string
	CompetencyID    string
	Status          string
	ConfidenceLevel int
	Priority        int
	StrugglesCount  int
	EstimatedLevel  int
	IsPriority      bool
	LastPracticedAt *time.Time
	LastStruggleAt  *time.Time
	Weakness        WeaknessIndicators
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ClampConfidence bounds a confidence level to [0,100]
func ClampConfidence(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

// StatusForConfidence derives the progress status from a confidence level
func StatusForConfidence(level int) string {
	switch {
	case level >= MasteryThreshold:
		return StatusMastered
	case level > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}
