package service

import (
	"math/rand"
	"testing"

	"lernbuddy/internal/models"
	"lernbuddy/internal/repository"
)

type fakeAssessments struct {
	priorities []models.SubjectAssessment
}

func (f *fakeAssessments) ListPriority(userID string, limit int) ([]models.SubjectAssessment, error) {
	if limit < len(f.priorities) {
		return f.priorities[:limit], nil
	}
	return f.priorities, nil
}

type fakeProgress struct {
	active  []repository.ProgressWithSubject
	created []*models.CompetencyProgress
}

func (f *fakeProgress) ListActive(userID string) ([]repository.ProgressWithSubject, error) {
	return f.active, nil
}

func (f *fakeProgress) GetTopRanked(userID string) (*repository.ProgressWithSubject, error) {
	if len(f.active) == 0 {
		return nil, nil
	}
	return &f.active[0], nil
}

func (f *fakeProgress) Create(progress *models.CompetencyProgress) error {
	progress.ID = "created-progress"
	f.created = append(f.created, progress)
	return nil
}

type fakeCompetencies struct {
	byID      map[string]*models.Competency
	bySubject map[string][]models.Competency
	byGrade   []models.Competency
}

func (f *fakeCompetencies) GetByID(id string) (*models.Competency, error) {
	return f.byID[id], nil
}

func (f *fakeCompetencies) FindMandatory(subject string, gradeLevel int, federalState string, limit int) ([]models.Competency, error) {
	return f.bySubject[subject], nil
}

func (f *fakeCompetencies) FindMandatoryForGrade(gradeLevel int, federalState string, limit int) ([]models.Competency, error) {
	return f.byGrade, nil
}

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestSelectPrefersActivePrioritySubject(t *testing.T) {
	assessments := &fakeAssessments{priorities: []models.SubjectAssessment{
		{Subject: "Mathematik", EstimatedLevel: 5, Discrepancy: 2, IsPriority: true},
	}}
	progress := &fakeProgress{active: []repository.ProgressWithSubject{
		{CompetencyProgress: models.CompetencyProgress{ID: "p1", CompetencyID: "c-deutsch", StrugglesCount: 5}, Subject: "Deutsch"},
		{CompetencyProgress: models.CompetencyProgress{ID: "p2", CompetencyID: "c-mathe", StrugglesCount: 2}, Subject: "Mathematik"},
	}}
	competencies := &fakeCompetencies{byID: map[string]*models.Competency{
		"c-mathe": {ID: "c-mathe", Subject: "Mathematik", Title: "Brüche"},
	}}

	selector := NewSelectorService(assessments, progress, competencies, testRand())
	selection, err := selector.Select("user-1", &models.Profile{ID: "user-1", GradeLevel: 7})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if selection == nil {
		t.Fatal("Expected a selection")
	}
	if selection.Progress.ID != "p2" {
		t.Errorf("Selected progress %s, want p2 (priority subject beats higher struggles)", selection.Progress.ID)
	}
	if !selection.IsPrioritySubject {
		t.Error("Expected IsPrioritySubject to be true")
	}
}

func TestSelectFallsBackToTopRanked(t *testing.T) {
	assessments := &fakeAssessments{}
	progress := &fakeProgress{active: []repository.ProgressWithSubject{
		{CompetencyProgress: models.CompetencyProgress{ID: "p1", CompetencyID: "c-deutsch"}, Subject: "Deutsch"},
	}}
	competencies := &fakeCompetencies{byID: map[string]*models.Competency{
		"c-deutsch": {ID: "c-deutsch", Subject: "Deutsch", Title: "Rechtschreibung"},
	}}

	selector := NewSelectorService(assessments, progress, competencies, testRand())
	selection, err := selector.Select("user-1", &models.Profile{ID: "user-1", GradeLevel: 7})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if selection == nil || selection.Progress.ID != "p1" {
		t.Fatalf("Expected top-ranked progress p1, got %+v", selection)
	}
	if selection.IsPrioritySubject {
		t.Error("Expected IsPrioritySubject to be false without priority subjects")
	}
}

func TestSelectStartsPrioritySubjectProgress(t *testing.T) {
	assessments := &fakeAssessments{priorities: []models.SubjectAssessment{
		{Subject: "Mathematik", EstimatedLevel: 6, Discrepancy: 2, IsPriority: true},
	}}
	progress := &fakeProgress{}
	competencies := &fakeCompetencies{bySubject: map[string][]models.Competency{
		"Mathematik": {
			{ID: "c1", Subject: "Mathematik", GradeLevel: 6, IsMandatory: true},
			{ID: "c2", Subject: "Mathematik", GradeLevel: 6, IsMandatory: true},
		},
	}}

	selector := NewSelectorService(assessments, progress, competencies, testRand())
	selection, err := selector.Select("user-1", &models.Profile{ID: "user-1", GradeLevel: 8})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if selection == nil {
		t.Fatal("Expected a selection")
	}
	if len(progress.created) != 1 {
		t.Fatalf("Expected 1 created progress row, got %d", len(progress.created))
	}

	created := progress.created[0]
	if created.Priority != 10 {
		t.Errorf("Priority = %d, want 10", created.Priority)
	}
	if !created.IsPriority {
		t.Error("Expected IsPriority to be true")
	}
	if created.EstimatedLevel != 6 {
		t.Errorf("EstimatedLevel = %d, want 6 (assessment level, not grade)", created.EstimatedLevel)
	}
	if created.ConfidenceLevel != 0 {
		t.Errorf("ConfidenceLevel = %d, want 0", created.ConfidenceLevel)
	}
	if selection.Competency.Subject != "Mathematik" {
		t.Errorf("Subject = %q, want Mathematik", selection.Competency.Subject)
	}
}

func TestSelectStartsGradeLevelProgress(t *testing.T) {
	assessments := &fakeAssessments{}
	progress := &fakeProgress{}
	competencies := &fakeCompetencies{byGrade: []models.Competency{
		{ID: "c1", Subject: "Deutsch", GradeLevel: 7, IsMandatory: true},
	}}

	selector := NewSelectorService(assessments, progress, competencies, testRand())
	selection, err := selector.Select("user-1", &models.Profile{ID: "user-1", GradeLevel: 7})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if selection == nil {
		t.Fatal("Expected a selection")
	}

	created := progress.created[0]
	if created.Priority != 0 {
		t.Errorf("Priority = %d, want 0", created.Priority)
	}
	if created.IsPriority {
		t.Error("Expected IsPriority to be false")
	}
}

func TestSelectNoCandidates(t *testing.T) {
	selector := NewSelectorService(&fakeAssessments{}, &fakeProgress{}, &fakeCompetencies{}, testRand())
	selection, err := selector.Select("user-1", &models.Profile{ID: "user-1", GradeLevel: 7})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if selection != nil {
		t.Errorf("Expected no selection, got %+v", selection)
	}
}
