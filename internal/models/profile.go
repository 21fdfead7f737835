package models

import "time"

// Buddy personalities a learner can choose for their companion
const (
	PersonalityEncouraging  = "encouraging"
	PersonalityFunny        = "funny"
	PersonalityProfessional = "professional"
	PersonalityFriendly     = "friendly"
)

// Profile represents a learner profile
type Profile struct {
	ID               string
	DisplayName      string
	GradeLevel       int
	FederalState     string // empty = not set, competencies for all states apply
	BuddyPersonality string
	TTSEnabled       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ValidPersonality reports whether p is one of the supported buddy personalities
func ValidPersonality(p string) bool {
	switch p {
	case PersonalityEncouraging, PersonalityFunny, PersonalityProfessional, PersonalityFriendly:
		return true
	}
	return false
}

// Interest represents a topic a learner cares about, with an intensity of 1-10
type Interest struct {
	ID        string
	UserID    string
	Interest  string
	Intensity int
	CreatedAt time.Time
}
