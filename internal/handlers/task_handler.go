package handlers

import (
	"encoding/json"
	"net/http"

	"lernbuddy/internal/repository"
	"lernbuddy/internal/service"
)

// TaskHandler handles task package and task item requests
type TaskHandler struct {
	taskService *service.TaskService
	profiles    *repository.ProfileRepository
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *service.TaskService, profiles *repository.ProfileRepository) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		profiles:    profiles,
	}
}

// ListPackages returns the learner's task packages
func (h *TaskHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	packages, err := h.taskService.ListPackages(userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Aufgabenpakete konnten nicht geladen werden", "failed to list packages", err)
		return
	}

	out := make([]packageResponse, 0, len(packages))
	for i := range packages {
		out = append(out, toPackageResponse(&packages[i]))
	}
	respondWithJSON(w, http.StatusOK, out)
}

type packageCreateRequest struct {
	Title       string `json:"title"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// CreatePackage creates a new task package
func (h *TaskHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	var req packageCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Ungültige Anfrage", "failed to decode package", err)
		return
	}
	if req.Title == "" {
		respondWithError(w, http.StatusBadRequest, "Bitte gib einen Titel an", "", nil)
		return
	}

	pkg, err := h.taskService.CreatePackage(userID, req.Title, req.Subject, req.Description)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Aufgabenpaket konnte nicht erstellt werden", "failed to create package", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, toPackageResponse(pkg))
}

// ListTasks returns all tasks of one package
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	packageID := r.PathValue("id")

	pkg, err := h.taskService.GetPackage(packageID, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Aufgaben konnten nicht geladen werden", "failed to load package", err)
		return
	}
	if pkg == nil {
		respondWithError(w, http.StatusNotFound, "Aufgabenpaket nicht gefunden", "", nil)
		return
	}

	items, err := h.taskService.ListItems(packageID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Aufgaben konnten nicht geladen werden", "failed to list tasks", err)
		return
	}

	respondWithJSON(w, http.StatusOK, toTaskResponses(items))
}

type taskCreateRequest struct {
	ImageURL string `json:"imageUrl"`
	Position int    `json:"position"`
}

// CreateTask stores an uploaded exercise image in a package and has the AI
// simplify it for the learner's grade level
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	packageID := r.PathValue("id")

	var req taskCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Ungültige Anfrage", "failed to decode task", err)
		return
	}
	if req.ImageURL == "" {
		respondWithError(w, http.StatusBadRequest, "Bitte lade ein Bild der Aufgabe hoch", "", nil)
		return
	}

	pkg, err := h.taskService.GetPackage(packageID, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Aufgabe konnte nicht gespeichert werden", "failed to load package", err)
		return
	}
	if pkg == nil {
		respondWithError(w, http.StatusNotFound, "Aufgabenpaket nicht gefunden", "", nil)
		return
	}

	gradeLevel := 5
	if profile, err := h.profiles.GetByID(userID); err == nil && profile != nil && profile.GradeLevel > 0 {
		gradeLevel = profile.GradeLevel
	}

	item, err := h.taskService.AddItem(r.Context(), packageID, userID, req.ImageURL, req.Position, gradeLevel)
	if item == nil {
		respondWithError(w, http.StatusInternalServerError, "Aufgabe konnte nicht gespeichert werden", "failed to create task", err)
		return
	}
	if err != nil {
		// Stored but not simplified; the client can retry the simplification
		respondWithError(w, http.StatusBadGateway, "Aufgabe gespeichert, aber die Aufbereitung ist fehlgeschlagen", "task simplification failed", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, toTaskResponse(item))
}

// CompleteTask marks a task item as worked through
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	id := r.PathValue("id")

	if err := h.taskService.MarkCompleted(id, userID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Aufgabe konnte nicht abgeschlossen werden", "failed to complete task", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
