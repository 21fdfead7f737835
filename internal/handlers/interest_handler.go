package handlers

import (
	"encoding/json"
	"net/http"

	"lernbuddy/internal/repository"
)

// maxInterests caps how many interests a learner can store
const maxInterests = 20

// InterestHandler handles learner interest requests
type InterestHandler struct {
	interests *repository.InterestRepository
}

// NewInterestHandler creates a new interest handler
func NewInterestHandler(interests *repository.InterestRepository) *InterestHandler {
	return &InterestHandler{interests: interests}
}

// List returns the learner's interests, strongest first
func (h *InterestHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	interests, err := h.interests.ListByUser(userID, maxInterests)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Interessen konnten nicht geladen werden", "failed to list interests", err)
		return
	}

	respondWithJSON(w, http.StatusOK, toInterestResponses(interests))
}

type interestCreateRequest struct {
	Interest  string `json:"interest"`
	Intensity int    `json:"intensity"`
}

// Create adds a new interest
func (h *InterestHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	var req interestCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Ungültige Anfrage", "failed to decode interest", err)
		return
	}

	if req.Interest == "" {
		respondWithError(w, http.StatusBadRequest, "Bitte gib ein Interesse an", "", nil)
		return
	}
	if req.Intensity < 1 || req.Intensity > 10 {
		respondWithError(w, http.StatusBadRequest, "Die Intensität muss zwischen 1 und 10 liegen", "", nil)
		return
	}

	interest, err := h.interests.Create(userID, req.Interest, req.Intensity)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Interesse konnte nicht gespeichert werden", "failed to create interest", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, interestResponse{
		ID:        interest.ID,
		Interest:  interest.Interest,
		Intensity: interest.Intensity,
	})
}

// Delete removes one of the learner's interests
func (h *InterestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	id := r.PathValue("id")

	if err := h.interests.Delete(id, userID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Interesse konnte nicht gelöscht werden", "failed to delete interest", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
