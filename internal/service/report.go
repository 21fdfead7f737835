package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"lernbuddy/internal/models"
	"lernbuddy/internal/repository"
)

// SubjectReport summarizes a learner's standing in one subject
type SubjectReport struct {
	Subject        string `json:"subject"`
	Total          int    `json:"total"`
	Mastered       int    `json:"mastered"`
	InProgress     int    `json:"inProgress"`
	AvgConfidence  int    `json:"avgConfidence"`
	Struggles      int    `json:"struggles"`
	EstimatedLevel int    `json:"estimatedLevel,omitempty"`
	IsPriority     bool   `json:"isPriority"`
}

// ProgressReport is the full progress overview for a learner
type ProgressReport struct {
	UserID         string          `json:"userId"`
	DisplayName    string          `json:"displayName,omitempty"`
	GeneratedAt    time.Time       `json:"generatedAt"`
	Subjects       []SubjectReport `json:"subjects"`
	TotalMastered  int             `json:"totalMastered"`
	RecentSessions int             `json:"recentSessions"`
}

// ReportService aggregates competency progress and assessments into a
// progress overview for parents
type ReportService struct {
	profiles    *repository.ProfileRepository
	progress    *repository.ProgressRepository
	assessments *repository.AssessmentRepository
	sessions    *repository.SessionRepository
	email       *EmailService
}

// NewReportService creates a new report service
func NewReportService(
	profiles *repository.ProfileRepository,
	progress *repository.ProgressRepository,
	assessments *repository.AssessmentRepository,
	sessions *repository.SessionRepository,
	email *EmailService,
) *ReportService {
	return &ReportService{
		profiles:    profiles,
		progress:    progress,
		assessments: assessments,
		sessions:    sessions,
		email:       email,
	}
}

// Generate builds the progress report for a user
func (s *ReportService) Generate(userID string) (*ProgressReport, error) {
	progress, err := s.progress.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	assessments, err := s.assessments.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assessments: %w", err)
	}

	bySubject := make(map[string]*SubjectReport)
	for _, p := range progress {
		r := bySubject[p.Subject]
		if r == nil {
			r = &SubjectReport{Subject: p.Subject}
			bySubject[p.Subject] = r
		}
		r.Total++
		r.Struggles += p.StrugglesCount
		r.AvgConfidence += p.ConfidenceLevel
		switch p.Status {
		case models.StatusMastered:
			r.Mastered++
		case models.StatusInProgress:
			r.InProgress++
		}
	}
	for _, r := range bySubject {
		if r.Total > 0 {
			r.AvgConfidence /= r.Total
		}
	}

	// Attach the latest assessment per subject
	for _, a := range assessments {
		r := bySubject[a.Subject]
		if r == nil {
			r = &SubjectReport{Subject: a.Subject}
			bySubject[a.Subject] = r
		}
		if r.EstimatedLevel == 0 {
			r.EstimatedLevel = a.EstimatedLevel
			r.IsPriority = a.IsPriority
		}
	}

	subjects := make([]SubjectReport, 0, len(bySubject))
	totalMastered := 0
	for _, r := range bySubject {
		subjects = append(subjects, *r)
		totalMastered += r.Mastered
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Subject < subjects[j].Subject })

	recentSessions, err := s.sessions.CountRecent(userID, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}

	report := &ProgressReport{
		UserID:         userID,
		GeneratedAt:    time.Now(),
		Subjects:       subjects,
		TotalMastered:  totalMastered,
		RecentSessions: recentSessions,
	}

	profile, err := s.profiles.GetByID(userID)
	if err == nil && profile != nil {
		report.DisplayName = profile.DisplayName
	}

	return report, nil
}

// SendEmail generates the report and mails it to the given address
func (s *ReportService) SendEmail(ctx context.Context, userID, toEmail string) error {
	report, err := s.Generate(userID)
	if err != nil {
		return err
	}
	return s.email.SendProgressReport(ctx, toEmail, report.DisplayName, s.RenderText(report))
}

// RenderText renders the report as plain German text, the format used in the
// report email
func (s *ReportService) RenderText(report *ProgressReport) string {
	var b strings.Builder

	name := report.DisplayName
	if name == "" {
		name = "dein Kind"
	}
	fmt.Fprintf(&b, "Lernfortschritt für %s\n", name)
	fmt.Fprintf(&b, "Stand: %s\n\n", report.GeneratedAt.Format("02.01.2006"))

	for _, subject := range report.Subjects {
		fmt.Fprintf(&b, "%s:\n", subject.Subject)
		fmt.Fprintf(&b, "  Gemeistert: %d von %d Kompetenzen\n", subject.Mastered, subject.Total)
		fmt.Fprintf(&b, "  In Arbeit: %d\n", subject.InProgress)
		fmt.Fprintf(&b, "  Durchschnittliche Sicherheit: %d%%\n", subject.AvgConfidence)
		if subject.IsPriority {
			b.WriteString("  Dieses Fach bekommt gerade besondere Aufmerksamkeit.\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Lerneinheiten in den letzten 7 Tagen: %d\n", report.RecentSessions)
	fmt.Fprintf(&b, "Insgesamt gemeisterte Kompetenzen: %d\n", report.TotalMastered)

	return b.String()
}
