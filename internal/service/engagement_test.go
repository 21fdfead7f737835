package service

import (
	"testing"

	"lernbuddy/internal/models"
)

func TestClassifyEngagement(t *testing.T) {
	tests := []struct {
		name           string
		responseTimeMs int64
		messageLength  int
		avgResponse    float64
		avgLength      float64
		want           string
	}{
		{"slow response is frustrated", 26000, 50, 10000, 50, models.EngagementFrustrated},
		{"tiny message is frustrated", 10000, 10, 10000, 50, models.EngagementFrustrated},
		{"somewhat slow is low", 16000, 50, 10000, 50, models.EngagementLow},
		{"short message is low", 10000, 25, 10000, 50, models.EngagementLow},
		{"fast and substantial is high", 7000, 50, 10000, 50, models.EngagementHigh},
		{"fast but average length is normal", 7000, 40, 10000, 50, models.EngagementNormal},
		{"baseline is normal", 10000, 50, 10000, 50, models.EngagementNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyEngagement(tt.responseTimeMs, tt.messageLength, tt.avgResponse, tt.avgLength)
			if got != tt.want {
				t.Errorf("ClassifyEngagement(%d, %d) = %q, want %q", tt.responseTimeMs, tt.messageLength, got, tt.want)
			}
		})
	}
}

func TestClassifyEngagementFrustratedWinsOverLength(t *testing.T) {
	// A response time far over baseline classifies as frustrated even when
	// the message itself is long
	got := ClassifyEngagement(30000, 200, 10000, 50)
	if got != models.EngagementFrustrated {
		t.Errorf("ClassifyEngagement() = %q, want %q", got, models.EngagementFrustrated)
	}
}
