package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lernbuddy/internal/security"
)

func newChatHandlerForValidation() *ChatHandler {
	// The chat service is never reached by requests that fail validation
	return NewChatHandler(nil, security.NewRateLimiter(2, time.Minute))
}

func TestChatMissingUserID(t *testing.T) {
	h := newChatHandlerForValidation()

	req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"messages":[{"role":"user","content":"Hallo"}]}`))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	if rec.Code != 400 {
		t.Errorf("Status = %d, want 400", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Body is not valid JSON: %v", err)
	}
	if body["error"] != "User ID is required" {
		t.Errorf("error = %q, want %q", body["error"], "User ID is required")
	}
}

func TestChatInvalidBody(t *testing.T) {
	h := newChatHandlerForValidation()

	req := httptest.NewRequest("POST", "/chat", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	if rec.Code != 400 {
		t.Errorf("Status = %d, want 400", rec.Code)
	}
}

func TestChatUserMismatch(t *testing.T) {
	h := newChatHandlerForValidation()

	req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"userId":"user-2","messages":[]}`))
	ctx := context.WithValue(req.Context(), UserIDContextKey, "user-1")
	rec := httptest.NewRecorder()
	h.Chat(rec, req.WithContext(ctx))

	if rec.Code != 403 {
		t.Errorf("Status = %d, want 403", rec.Code)
	}
}

func TestChatRateLimited(t *testing.T) {
	// A zero-token limiter denies the first request before the service runs
	h := NewChatHandler(nil, security.NewRateLimiter(0, time.Minute))

	req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"userId":"user-2","messages":[]}`))
	ctx := context.WithValue(req.Context(), UserIDContextKey, "user-2")
	rec := httptest.NewRecorder()
	h.Chat(rec, req.WithContext(ctx))

	if rec.Code != 429 {
		t.Errorf("Status = %d, want 429", rec.Code)
	}
}
