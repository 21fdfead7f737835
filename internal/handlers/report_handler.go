package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"lernbuddy/internal/service"
)

// ReportHandler serves the progress report and sends it by email
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Get returns the learner's progress report
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	report, err := h.reportService.Generate(userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Bericht konnte nicht erstellt werden", "failed to generate report", err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

type reportEmailRequest struct {
	Email string `json:"email"`
}

// SendEmail mails the progress report to a parent
func (h *ReportHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	var req reportEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Ungültige Anfrage", "failed to decode report email request", err)
		return
	}

	if !strings.Contains(req.Email, "@") {
		respondWithError(w, http.StatusBadRequest, "Bitte gib eine gültige E-Mail-Adresse an", "", nil)
		return
	}

	if err := h.reportService.SendEmail(r.Context(), userID, req.Email); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Der Bericht konnte nicht versendet werden", "failed to send report email", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
