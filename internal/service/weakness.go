package service

import "strings"

// WeaknessDetector inspects a learner message for struggle signals.
// The returned tags are stored on the competency progress; an empty
// result means no weakness was detected this turn.
type WeaknessDetector interface {
	Detect(message string, learnerTurns int) []string
}

// shortMessageThreshold is the character count below which a late-conversation
// reply counts as a struggle signal on its own
const shortMessageThreshold = 10

// KeywordWeaknessDetector matches a fixed list of German struggle phrases,
// plus a structural rule for very short replies later in the conversation.
type KeywordWeaknessDetector struct {
	keywords []string
}

// NewKeywordWeaknessDetector creates a detector with the default phrase list
func NewKeywordWeaknessDetector() *KeywordWeaknessDetector {
	return &KeywordWeaknessDetector{
		keywords: []string{
			"weiß nicht",
			"keine ahnung",
			"verstehe nicht",
			"versteh ich nicht",
			"verstehe das nicht",
			"schwierig",
			"zu schwer",
			"kapiere nicht",
			"kapier das nicht",
			"kann das nicht",
			"hilfe",
		},
	}
}

// Detect returns the matched struggle tags for the message
func (d *KeywordWeaknessDetector) Detect(message string, learnerTurns int) []string {
	lowered := strings.ToLower(message)

	var tags []string
	for _, keyword := range d.keywords {
		if strings.Contains(lowered, keyword) {
			tags = append(tags, keyword)
		}
	}

	if learnerTurns > 2 && len([]rune(strings.TrimSpace(message))) < shortMessageThreshold {
		tags = append(tags, "kurze antwort")
	}

	return tags
}
