package models

import "time"

// Competency is an immutable curriculum skill tied to a subject and grade level.
// FederalState is empty when the competency applies to all states.
type Competency struct {
	ID               string
	Subject          string
	GradeLevel       int
	CompetencyDomain string
	Title            string
	Description      string
	IsMandatory      bool
	FederalState     string
	RequirementLevel string
	CreatedAt        time.Time
}
