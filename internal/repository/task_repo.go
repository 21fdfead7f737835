package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"lernbuddy/internal/database"
	"lernbuddy/internal/models"

	"github.com/google/uuid"
)

// TaskRepository handles task package and task item database operations
type TaskRepository struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreatePackage inserts a new task package and returns it
func (r *TaskRepository) CreatePackage(userID, title, subject, description string) (*models.TaskPackage, error) {
	pkg := &models.TaskPackage{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Subject:     subject,
		Description: description,
	}

	query := `
		INSERT INTO task_packages (id, user_id, title, subject, description)
		VALUES (?, ?, ?, ?, ?)
	`

	if _, err := r.db.Exec(query, pkg.ID, pkg.UserID, pkg.Title, nullString(pkg.Subject), nullString(pkg.Description)); err != nil {
		return nil, err
	}

	return pkg, nil
}

// ListPackages retrieves a user's task packages, newest first
func (r *TaskRepository) ListPackages(userID string) ([]models.TaskPackage, error) {
	query := `
		SELECT id, user_id, title, subject, description, created_at
		FROM task_packages
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var packages []models.TaskPackage
	for rows.Next() {
		var pkg models.TaskPackage
		var subject, description sql.NullString

		err := rows.Scan(&pkg.ID, &pkg.UserID, &pkg.Title, &subject, &description, &pkg.CreatedAt)
		if err != nil {
			return nil, err
		}

		pkg.Subject = subject.String
		pkg.Description = description.String
		packages = append(packages, pkg)
	}

	return packages, rows.Err()
}

// GetPackage retrieves a package owned by the user. Returns (nil, nil) when not found.
func (r *TaskRepository) GetPackage(id, userID string) (*models.TaskPackage, error) {
	query := `
		SELECT id, user_id, title, subject, description, created_at
		FROM task_packages
		WHERE id = ? AND user_id = ?
	`

	pkg := &models.TaskPackage{}
	var subject, description sql.NullString

	err := r.db.QueryRow(query, id, userID).Scan(
		&pkg.ID, &pkg.UserID, &pkg.Title, &subject, &description, &pkg.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	pkg.Subject = subject.String
	pkg.Description = description.String
	return pkg, nil
}

// CreateItem inserts a new task item at the given position
func (r *TaskRepository) CreateItem(packageID, userID, imageURL string, position int) (*models.TaskItem, error) {
	item := &models.TaskItem{
		ID:               uuid.NewString(),
		PackageID:        packageID,
		UserID:           userID,
		OriginalImageURL: imageURL,
		Position:         position,
	}

	query := `
		INSERT INTO task_items (id, package_id, user_id, original_image_url, position)
		VALUES (?, ?, ?, ?, ?)
	`

	if _, err := r.db.Exec(query, item.ID, item.PackageID, item.UserID, item.OriginalImageURL, item.Position); err != nil {
		return nil, err
	}

	return item, nil
}

// ListItems retrieves a package's task items in position order
func (r *TaskRepository) ListItems(packageID string) ([]models.TaskItem, error) {
	query := `
		SELECT id, package_id, user_id, original_image_url, simplified_content,
		       task_type, interactive_element, position, is_completed, created_at
		FROM task_items
		WHERE package_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, packageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.TaskItem
	for rows.Next() {
		item, err := scanTaskItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

// GetItem retrieves a task item owned by the user. Returns (nil, nil) when not found.
func (r *TaskRepository) GetItem(id, userID string) (*models.TaskItem, error) {
	query := `
		SELECT id, package_id, user_id, original_image_url, simplified_content,
		       task_type, interactive_element, position, is_completed, created_at
		FROM task_items
		WHERE id = ? AND user_id = ?
	`

	rows, err := r.db.Query(query, id, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanTaskItem(rows)
}

// UpdateSimplified stores the AI-simplified content for a task item
func (r *TaskRepository) UpdateSimplified(id, simplifiedContent, taskType string, element *models.InteractiveElement) error {
	var elementJSON sql.NullString
	if element != nil {
		data, err := json.Marshal(element)
		if err != nil {
			return fmt.Errorf("failed to marshal interactive element: %w", err)
		}
		elementJSON = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		UPDATE task_items
		SET simplified_content = ?, task_type = ?, interactive_element = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query, simplifiedContent, nullString(taskType), elementJSON, id)
	return err
}

// MarkCompleted flags a task item as done
func (r *TaskRepository) MarkCompleted(id, userID string) error {
	query := "UPDATE task_items SET is_completed = ? WHERE id = ? AND user_id = ?"
	_, err := r.db.Exec(query, true, id, userID)
	return err
}

func scanTaskItem(rows *sql.Rows) (*models.TaskItem, error) {
	item := &models.TaskItem{}
	var simplified, taskType, element sql.NullString

	err := rows.Scan(
		&item.ID,
		&item.PackageID,
		&item.UserID,
		&item.OriginalImageURL,
		&simplified,
		&taskType,
		&element,
		&item.Position,
		&item.IsCompleted,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.SimplifiedContent = simplified.String
	item.TaskType = taskType.String
	if element.Valid && element.String != "" {
		var el models.InteractiveElement
		if err := json.Unmarshal([]byte(element.String), &el); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interactive element: %w", err)
		}
		item.InteractiveElement = &el
	}

	return item, nil
}
