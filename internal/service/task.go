package service

import (
	"context"
	"fmt"

	"lernbuddy/internal/ai"
	"lernbuddy/internal/models"
	"lernbuddy/internal/repository"
)

type completionGateway interface {
	Complete(ctx context.Context, messages []ai.Message) (string, error)
}

// TaskService manages uploaded task packages and prepares individual tasks
// for the learner by having the AI simplify the photographed exercise.
type TaskService struct {
	tasks   *repository.TaskRepository
	gateway completionGateway
}

// NewTaskService creates a new task service
func NewTaskService(tasks *repository.TaskRepository, gateway completionGateway) *TaskService {
	return &TaskService{tasks: tasks, gateway: gateway}
}

// CreatePackage creates a new task package, e.g. one homework sheet
func (s *TaskService) CreatePackage(userID, title, subject, description string) (*models.TaskPackage, error) {
	return s.tasks.CreatePackage(userID, title, subject, description)
}

// ListPackages returns the user's task packages, newest first
func (s *TaskService) ListPackages(userID string) ([]models.TaskPackage, error) {
	return s.tasks.ListPackages(userID)
}

// GetPackage returns a single package owned by the user
func (s *TaskService) GetPackage(id, userID string) (*models.TaskPackage, error) {
	return s.tasks.GetPackage(id, userID)
}

// ListItems returns all tasks of a package in upload order
func (s *TaskService) ListItems(packageID string) ([]models.TaskItem, error) {
	return s.tasks.ListItems(packageID)
}

// MarkCompleted marks a task item as worked through
func (s *TaskService) MarkCompleted(id, userID string) error {
	return s.tasks.MarkCompleted(id, userID)
}

// AddItem stores an uploaded exercise image and immediately asks the AI to
// rewrite it for the learner's grade level. The simplified text is stored on
// the item; the upload still succeeds if simplification fails.
func (s *TaskService) AddItem(ctx context.Context, packageID, userID, imageURL string, position, gradeLevel int) (*models.TaskItem, error) {
	item, err := s.tasks.CreateItem(packageID, userID, imageURL, position)
	if err != nil {
		return nil, err
	}

	simplified, err := s.Simplify(ctx, imageURL, gradeLevel)
	if err != nil {
		return item, fmt.Errorf("task stored but simplification failed: %w", err)
	}

	if err := s.tasks.UpdateSimplified(item.ID, simplified, models.ElementText, nil); err != nil {
		return item, fmt.Errorf("task stored but failed to save simplification: %w", err)
	}
	item.SimplifiedContent = simplified
	item.TaskType = models.ElementText
	return item, nil
}

// Simplify sends the exercise image to the AI and returns a version rewritten
// for the given grade level
func (s *TaskService) Simplify(ctx context.Context, imageURL string, gradeLevel int) (string, error) {
	systemPrompt := fmt.Sprintf(`Du bist ein hilfreicher Lernassistent, der Aufgaben für Schüler der %d. Klasse vereinfacht aufbereitet.
Analysiere das Bild der Aufgabe und:
1. Erkenne den Text und die Aufgabenstellung
2. Vereinfache die Aufgabe so, dass sie für das Lernniveau verständlich ist
3. Strukturiere die Aufgabe klar und übersichtlich
4. Füge hilfreiche Tipps hinzu, wenn nötig

Gib die Antwort im folgenden Format zurück:
### Aufgabe
[Vereinfachte Aufgabenstellung]

### Hinweise
[Hilfreiche Tipps zum Lösen]`, gradeLevel)

	content, err := s.gateway.Complete(ctx, []ai.Message{
		{Role: models.RoleSystem, Content: systemPrompt},
		{Role: models.RoleUser, Content: []interface{}{
			ai.NewTextPart("Bitte analysiere diese Aufgabe und bereite sie verständlich auf."),
			ai.NewImagePart(imageURL),
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to simplify task: %w", err)
	}
	return content, nil
}
