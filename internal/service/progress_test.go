package service

import (
	"testing"

	"lernbuddy/internal/models"
)

type fakeProgressWriter struct {
	updated []*models.CompetencyProgress
	err     error
}

func (f *fakeProgressWriter) Update(progress *models.CompetencyProgress) error {
	f.updated = append(f.updated, progress)
	return f.err
}

func TestApplyTurnWeakness(t *testing.T) {
	writer := &fakeProgressWriter{}
	svc := NewProgressService(writer, NewKeywordWeaknessDetector())

	progress := &models.CompetencyProgress{ConfidenceLevel: 30, StrugglesCount: 1}
	outcome, err := svc.ApplyTurn(progress, "ich weiß nicht", 4, models.EngagementNormal)
	if err != nil {
		t.Fatalf("ApplyTurn() error = %v", err)
	}

	if !outcome.WeaknessDetected {
		t.Error("Expected weakness to be detected")
	}
	if progress.ConfidenceLevel != 35 {
		t.Errorf("ConfidenceLevel = %d, want 35 (exactly +5)", progress.ConfidenceLevel)
	}
	if progress.StrugglesCount != 2 {
		t.Errorf("StrugglesCount = %d, want 2", progress.StrugglesCount)
	}
	if progress.Status != models.StatusInProgress {
		t.Errorf("Status = %q, want %q", progress.Status, models.StatusInProgress)
	}
	if progress.LastStruggleAt == nil {
		t.Error("LastStruggleAt should be set")
	}
	if progress.LastPracticedAt == nil {
		t.Error("LastPracticedAt should be set")
	}
	if len(progress.Weakness.Indicators) != 1 || progress.Weakness.Indicators[0] != "weiß nicht" {
		t.Errorf("Indicators = %v, want [weiß nicht]", progress.Weakness.Indicators)
	}
	if len(writer.updated) != 1 {
		t.Errorf("Expected 1 persisted update, got %d", len(writer.updated))
	}
}

func TestApplyTurnEngagementDeltas(t *testing.T) {
	tests := []struct {
		level string
		want  int
	}{
		{models.EngagementHigh, 25},
		{models.EngagementNormal, 20},
		{models.EngagementLow, 15},
		{models.EngagementFrustrated, 15},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			svc := NewProgressService(&fakeProgressWriter{}, NewKeywordWeaknessDetector())
			progress := &models.CompetencyProgress{ConfidenceLevel: 10}
			if _, err := svc.ApplyTurn(progress, "Der Nenner bleibt gleich", 4, tt.level); err != nil {
				t.Fatalf("ApplyTurn() error = %v", err)
			}
			if progress.ConfidenceLevel != 10+tt.want {
				t.Errorf("ConfidenceLevel = %d, want %d", progress.ConfidenceLevel, 10+tt.want)
			}
		})
	}
}

func TestApplyTurnClampAndMastery(t *testing.T) {
	svc := NewProgressService(&fakeProgressWriter{}, NewKeywordWeaknessDetector())

	progress := &models.CompetencyProgress{ConfidenceLevel: 90}
	if _, err := svc.ApplyTurn(progress, "Der Nenner bleibt gleich", 4, models.EngagementHigh); err != nil {
		t.Fatalf("ApplyTurn() error = %v", err)
	}
	if progress.ConfidenceLevel != 100 {
		t.Errorf("ConfidenceLevel = %d, want clamped 100", progress.ConfidenceLevel)
	}
	if progress.Status != models.StatusMastered {
		t.Errorf("Status = %q, want %q", progress.Status, models.StatusMastered)
	}
}

func TestApplyTurnMasteryThreshold(t *testing.T) {
	svc := NewProgressService(&fakeProgressWriter{}, NewKeywordWeaknessDetector())

	progress := &models.CompetencyProgress{ConfidenceLevel: 55}
	if _, err := svc.ApplyTurn(progress, "Der Nenner bleibt gleich", 4, models.EngagementHigh); err != nil {
		t.Fatalf("ApplyTurn() error = %v", err)
	}
	if progress.ConfidenceLevel != 80 {
		t.Fatalf("ConfidenceLevel = %d, want 80", progress.ConfidenceLevel)
	}
	if progress.Status != models.StatusMastered {
		t.Errorf("Status at exactly 80 = %q, want %q", progress.Status, models.StatusMastered)
	}
}

func TestApplyTurnIndicatorCap(t *testing.T) {
	svc := NewProgressService(&fakeProgressWriter{}, NewKeywordWeaknessDetector())

	progress := &models.CompetencyProgress{}
	for i := 0; i < 12; i++ {
		if _, err := svc.ApplyTurn(progress, "ich verstehe nicht", 4, models.EngagementNormal); err != nil {
			t.Fatalf("ApplyTurn() error = %v", err)
		}
	}
	if len(progress.Weakness.Indicators) != models.MaxWeaknessIndicators {
		t.Errorf("Indicators length = %d, want cap %d", len(progress.Weakness.Indicators), models.MaxWeaknessIndicators)
	}
}

func TestTaskComplete(t *testing.T) {
	tests := []struct {
		name       string
		turns      int
		weakness   bool
		engagement string
		want       bool
	}{
		{"clean turn after five turns", 5, false, models.EngagementLow, true},
		{"weakness but normal engagement", 5, true, models.EngagementNormal, true},
		{"weakness but high engagement", 6, true, models.EngagementHigh, true},
		{"weakness with low engagement", 5, true, models.EngagementLow, false},
		{"too few turns", 4, false, models.EngagementHigh, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TaskComplete(tt.turns, tt.weakness, tt.engagement); got != tt.want {
				t.Errorf("TaskComplete(%d, %v, %s) = %v, want %v", tt.turns, tt.weakness, tt.engagement, got, tt.want)
			}
		})
	}
}
