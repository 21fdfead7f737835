package service

import (
	"fmt"

	"lernbuddy/internal/models"
	"lernbuddy/internal/repository"
)

// EngagementService maintains the per-session engagement windows and
// classifies each learner turn against the session baseline.
type EngagementService struct {
	sessions *repository.SessionRepository
}

// NewEngagementService creates a new engagement service
func NewEngagementService(sessions *repository.SessionRepository) *EngagementService {
	return &EngagementService{sessions: sessions}
}

// Track records one turn's timing sample on the user's open session (creating
// one if needed) and returns the session and its engagement classification.
// Turns without timing data keep the session but classify as normal.
func (s *EngagementService) Track(userID string, responseTimeMs int64, messageLength int) (*models.LearningSession, string, error) {
	session, err := s.sessions.GetOpen(userID)
	if err != nil {
		return nil, models.EngagementNormal, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		session, err = s.sessions.Create(userID)
		if err != nil {
			return nil, models.EngagementNormal, fmt.Errorf("failed to create session: %w", err)
		}
	}

	if responseTimeMs <= 0 || messageLength <= 0 {
		session.EngagementLevel = models.EngagementNormal
		if err := s.sessions.UpdateMetrics(session); err != nil {
			return session, session.EngagementLevel, fmt.Errorf("failed to persist session: %w", err)
		}
		return session, session.EngagementLevel, nil
	}

	session.Metrics.Append(responseTimeMs, messageLength)
	session.EngagementLevel = ClassifyEngagement(
		responseTimeMs,
		messageLength,
		session.Metrics.AvgResponseTime(),
		session.Metrics.AvgMessageLength(),
	)

	if err := s.sessions.UpdateMetrics(session); err != nil {
		return session, session.EngagementLevel, fmt.Errorf("failed to persist session: %w", err)
	}
	return session, session.EngagementLevel, nil
}

// ClassifyEngagement maps one sample against the session averages (which
// already include the sample). Rules are checked in order, first match wins.
func ClassifyEngagement(responseTimeMs int64, messageLength int, avgResponseTime, avgMessageLength float64) string {
	rt := float64(responseTimeMs)
	ml := float64(messageLength)

	switch {
	case rt > 2.5*avgResponseTime || ml < 0.3*avgMessageLength:
		return models.EngagementFrustrated
	case rt > 1.5*avgResponseTime || ml < 0.6*avgMessageLength:
		return models.EngagementLow
	case rt < 0.8*avgResponseTime && ml > 0.9*avgMessageLength:
		return models.EngagementHigh
	default:
		return models.EngagementNormal
	}
}
