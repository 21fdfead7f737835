package models

import "time"

// SubjectAssessment holds the outcome of the onboarding assessment for one subject.
// EstimatedLevel is the grade the learner performed at; Discrepancy is how far
// that trails the actual grade. Subjects with IsPriority set bias the
// competency selection toward catching up.
type SubjectAssessment struct {
	ID               string
	UserID           string
	Subject          string
	EstimatedLevel   int
	ActualGradeLevel int
	Discrepancy      int
	IsPriority       bool
	Confidence       int
	QuestionsAsked   int
	AnswersGiven     int
	AssessmentDate   time.Time
}

// PriorityDiscrepancy is the grade gap at which a subject becomes a priority
const PriorityDiscrepancy = 2
