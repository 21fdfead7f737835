package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"lernbuddy/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// UserIDContextKey holds the authenticated user's ID
const UserIDContextKey ContextKey = "userID"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	verifier *security.TokenVerifier
	limiter  *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(verifier *security.TokenVerifier, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		verifier: verifier,
		limiter:  limiter,
	}
}

// RequireAuth validates the bearer token and puts the user ID on the context
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := security.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Anmeldung erforderlich", "", nil)
			return
		}

		userID, err := m.verifier.VerifyToken(token)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Anmeldung erforderlich", "invalid bearer token", err)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit limits requests per authenticated user, falling back to the
// client IP for unauthenticated routes
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := GetUserIDFromContext(r.Context())
		if key == "" {
			key = security.GetClientIP(r)
		}

		if !m.limiter.Allow(key) {
			respondWithError(w, http.StatusTooManyRequests, "Zu viele Anfragen. Bitte versuche es später.", "", nil)
			return
		}

		next(w, r)
	}
}

// Logging logs each request with its duration
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s (%v)", security.GetClientIP(r), r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserIDFromContext returns the authenticated user ID, or "" when absent
func GetUserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDContextKey).(string)
	return userID
}
