package models

import "time"

// Engagement classifications for a learner's latest turn
const (
	EngagementFrustrated = "frustrated"
	EngagementLow        = "low"
	EngagementNormal     = "normal"
	EngagementHigh       = "high"
)

// MetricsWindowSize caps the per-session rolling metric windows
const MetricsWindowSize = 10

// SessionMetrics holds the rolling engagement windows for a learning session.
// Both windows keep the most recent MetricsWindowSize samples, oldest first.
type SessionMetrics struct {
	ResponseTimes  []int64 `json:"responseTimes"`
	MessageLengths []int   `json:"messageLengths"`
}

// Append adds a sample to both windows, evicting the oldest entries
func (m *SessionMetrics) Append(responseTimeMs int64, messageLength int) {
	m.ResponseTimes = append(m.ResponseTimes, responseTimeMs)
	if len(m.ResponseTimes) > MetricsWindowSize {
		m.ResponseTimes = m.ResponseTimes[len(m.ResponseTimes)-MetricsWindowSize:]
	}

	m.MessageLengths = append(m.MessageLengths, messageLength)
	if len(m.MessageLengths) > MetricsWindowSize {
		m.MessageLengths = m.MessageLengths[len(m.MessageLengths)-MetricsWindowSize:]
	}
}

// AvgResponseTime returns the arithmetic mean of the response time window
func (m *SessionMetrics) AvgResponseTime() float64 {
	if len(m.ResponseTimes) == 0 {
		return 0
	}
	var sum int64
	for _, v := range m.ResponseTimes {
		sum += v
	}
	return float64(sum) / float64(len(m.ResponseTimes))
}

// AvgMessageLength returns the arithmetic mean of the message length window
func (m *SessionMetrics) AvgMessageLength() float64 {
	if len(m.MessageLengths) == 0 {
		return 0
	}
	sum := 0
	for _, v := range m.MessageLengths {
		sum += v
	}
	return float64(sum) / float64(len(m.MessageLengths))
}

// LearningSession represents one conversation with the buddy.
// At most one session per user has EndedAt == nil.
type LearningSession struct {
	ID              string
	UserID          string
	StartedAt       time.Time
	EndedAt         *time.Time
	EngagementLevel string
	Metrics         SessionMetrics
}
