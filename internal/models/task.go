package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Interactive element types a simplified task can carry
const (
	ElementTable   = "table"
	ElementChoices = "choices"
	ElementText    = "text"
)

// InteractiveElement describes the structured part of a simplified task,
// e.g. a fill-in table or a multiple choice block.
type InteractiveElement struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Validate checks that the element type is one the buddy knows how to walk through
func (e *InteractiveElement) Validate() error {
	switch e.Type {
	case ElementTable, ElementChoices, ElementText:
		return nil
	}
	return fmt.Errorf("unknown interactive element type %q", e.Type)
}

// TaskPackage groups uploaded exercises, e.g. one homework sheet
type TaskPackage struct {
	ID          string
	UserID      string
	Title       string
	Subject     string
	Description string
	CreatedAt   time.Time
}

// TaskItem is one uploaded exercise, simplified by the AI for the learner's level
type TaskItem struct {
	ID                 string
	PackageID          string
	UserID             string
	OriginalImageURL   string
	SimplifiedContent  string
	TaskType           string
	InteractiveElement *InteractiveElement
	Position           int
	IsCompleted        bool
	CreatedAt          time.Time
}

// ActiveTask is the task the learner is currently walking through with the
// buddy, as supplied in the chat request body.
type ActiveTask struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title"`
	SimplifiedContent  string              `json:"simplifiedContent"`
	TaskType           string              `json:"taskType,omitempty"`
	InteractiveElement *InteractiveElement `json:"interactiveElement,omitempty"`
}
