package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"lernbuddy/internal/ai"
	"lernbuddy/internal/models"
	"lernbuddy/internal/security"
	"lernbuddy/internal/service"
)

// ChatHandler handles the streaming chat endpoint
type ChatHandler struct {
	chatService *service.ChatService
	chatLimiter *security.RateLimiter
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, chatLimiter *security.RateLimiter) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		chatLimiter: chatLimiter,
	}
}

type chatRequest struct {
	UserID         string               `json:"userId"`
	Messages       []models.ChatMessage `json:"messages"`
	ResponseTimeMs int64                `json:"responseTimeMs,omitempty"`
	MessageLength  int                  `json:"messageLength,omitempty"`
	ActiveTask     *models.ActiveTask   `json:"activeTask,omitempty"`
}

// Chat runs one chat turn and streams the buddy's reply as server-sent events
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Ungültige Anfrage", "failed to decode chat request", err)
		return
	}

	if req.UserID == "" {
		respondWithError(w, http.StatusBadRequest, "User ID is required", "", nil)
		return
	}

	if authUser := GetUserIDFromContext(r.Context()); authUser != "" && authUser != req.UserID {
		respondWithError(w, http.StatusForbidden, "Zugriff verweigert", "", nil)
		return
	}

	if !h.chatLimiter.Allow(req.UserID) {
		respondWithError(w, http.StatusTooManyRequests, "Zu viele Anfragen. Bitte versuche es später.", "", nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	turn := service.ChatTurn{
		UserID:         req.UserID,
		Messages:       req.Messages,
		ResponseTimeMs: req.ResponseTimeMs,
		MessageLength:  req.MessageLength,
		ActiveTask:     req.ActiveTask,
	}

	// StreamTurn only errors before the first byte is written, so a JSON
	// error response is still possible here
	if err := h.chatService.StreamTurn(r.Context(), turn, w); err != nil {
		w.Header().Del("Content-Type")
		w.Header().Del("Cache-Control")
		w.Header().Del("Connection")

		switch {
		case errors.Is(err, ai.ErrRateLimited):
			respondWithError(w, http.StatusTooManyRequests, "Zu viele Anfragen. Bitte versuche es später.", "", nil)
		case errors.Is(err, ai.ErrQuotaExceeded):
			respondWithError(w, http.StatusPaymentRequired, "Zahlung erforderlich. Bitte Guthaben aufladen.", "", nil)
		case errors.Is(err, ai.ErrUnavailable):
			respondWithError(w, http.StatusServiceUnavailable, "Der Buddy ist gerade nicht erreichbar. Bitte versuche es gleich noch einmal.", "gateway unavailable", err)
		default:
			respondWithError(w, http.StatusInternalServerError, "KI-Dienst nicht verfügbar", "chat turn failed", err)
		}
	}
}
