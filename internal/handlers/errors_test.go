package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	respondWithError(rec, 503, "Der Buddy ist gerade nicht erreichbar", "gateway down", errors.New("dial tcp: refused"))

	if rec.Code != 503 {
		t.Errorf("Status = %d, want 503", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Body is not valid JSON: %v", err)
	}
	if body["error"] != "Der Buddy ist gerade nicht erreichbar" {
		t.Errorf("error = %q, want the user-facing message", body["error"])
	}
}

func TestRespondWithErrorNeverLeaksInternalError(t *testing.T) {
	rec := httptest.NewRecorder()
	respondWithError(rec, 500, "Etwas ist schiefgelaufen", "", errors.New("pq: relation does not exist"))

	if strings.Contains(rec.Body.String(), "pq:") {
		t.Errorf("Body leaks internal details: %q", rec.Body.String())
	}
}

func TestRespondWithJSONNilPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	respondWithJSON(rec, 204, nil)

	if rec.Code != 204 {
		t.Errorf("Status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", rec.Body.String())
	}
}
