package handlers

import (
	"encoding/json"
	"net/http"

	"lernbuddy/internal/models"
	"lernbuddy/internal/repository"
)

// ProfileHandler handles learner profile requests
type ProfileHandler struct {
	profiles *repository.ProfileRepository
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *repository.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get returns the authenticated learner's profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	profile, err := h.profiles.GetByID(userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Profil konnte nicht geladen werden", "failed to load profile", err)
		return
	}
	if profile == nil {
		respondWithError(w, http.StatusNotFound, "Profil nicht gefunden", "", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, toProfileResponse(profile))
}

type profileUpdateRequest struct {
	DisplayName      string `json:"displayName"`
	GradeLevel       int    `json:"gradeLevel"`
	FederalState     string `json:"federalState"`
	BuddyPersonality string `json:"buddyPersonality"`
	TTSEnabled       bool   `json:"ttsEnabled"`
}

// Update creates or updates the learner's profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Ungültige Anfrage", "failed to decode profile update", err)
		return
	}

	if req.GradeLevel < 1 || req.GradeLevel > 13 {
		respondWithError(w, http.StatusBadRequest, "Bitte gib eine Klassenstufe zwischen 1 und 13 an", "", nil)
		return
	}
	if req.BuddyPersonality != "" && !models.ValidPersonality(req.BuddyPersonality) {
		respondWithError(w, http.StatusBadRequest, "Unbekannte Buddy-Persönlichkeit", "", nil)
		return
	}

	profile, err := h.profiles.GetByID(userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Profil konnte nicht gespeichert werden", "failed to load profile", err)
		return
	}

	isNew := profile == nil
	if isNew {
		profile = &models.Profile{ID: userID, BuddyPersonality: models.PersonalityFriendly}
	}

	profile.DisplayName = req.DisplayName
	profile.GradeLevel = req.GradeLevel
	profile.FederalState = req.FederalState
	profile.TTSEnabled = req.TTSEnabled
	if req.BuddyPersonality != "" {
		profile.BuddyPersonality = req.BuddyPersonality
	}

	if isNew {
		err = h.profiles.Create(profile)
	} else {
		err = h.profiles.Update(profile)
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Profil konnte nicht gespeichert werden", "failed to save profile", err)
		return
	}

	respondWithJSON(w, http.StatusOK, toProfileResponse(profile))
}
