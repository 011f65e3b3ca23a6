package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/academic-engine/internal/domain/record"
	"github.com/edupulse/academic-engine/internal/domain/shared"
)

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

// mlTeacher owns Machine Learning in the default catalog.
var mlTeacher = TeacherRef{Email: "vinutha@edupulse.com", Subject: "Machine Learning"}

func TestUpdateMarks_AppliesAndDerivesCIE(t *testing.T) {
	repo := newFakeRepo()
	seedRecord(repo, "student-1")
	clf := &fakeClassifier{result: lowRiskClassification()}
	inv := &fakeInvalidator{}
	h := NewUpdateMarksHandler(repo, clf, inv, DefaultEnrichmentConfig(), nil)

	rec, err := h.Handle(context.Background(), UpdateMarksCommand{
		Teacher:   mlTeacher,
		StudentID: "student-1",
		Marks: record.MarksUpdate{
			Modules:    map[int]int{1: 18},
			IA1:        intPtr(40),
			IA2:        intPtr(38),
			Assignment: intPtr(9),
		},
	})
	require.NoError(t, err)

	sub, err := rec.Subject("Machine Learning")
	require.NoError(t, err)
	assert.Equal(t, 40, sub.IA1)
	assert.Equal(t, 18, sub.Modules[0].UnitTestMarks)
	assert.Equal(t, record.CalcCIE(40, 38, 9), sub.TotalCIE)

	// Persisted copy matches, other subjects untouched.
	stored := repo.stored("student-1")
	storedSub, err := stored.Subject("Machine Learning")
	require.NoError(t, err)
	assert.Equal(t, record.CalcCIE(40, 38, 9), storedSub.TotalCIE)

	other, err := stored.Subject("Cloud Computing")
	require.NoError(t, err)
	assert.Zero(t, other.IA1)
	assert.Zero(t, other.TotalCIE)

	// Enrichment and cache invalidation both ran.
	assert.Equal(t, 1, clf.calls)
	assert.Equal(t, 1, repo.classificationWrites)
	assert.Equal(t, 1, inv.calls)
	assert.Equal(t, record.RiskLow, rec.RiskLevel)
}

func TestUpdateMarks_RemarksOverwrite(t *testing.T) {
	repo := newFakeRepo()
	seedRecord(repo, "student-1")
	h := NewUpdateMarksHandler(repo, nil, nil, DefaultEnrichmentConfig(), nil)

	rec, err := h.Handle(context.Background(), UpdateMarksCommand{
		Teacher:   mlTeacher,
		StudentID: "student-1",
		Marks:     record.MarksUpdate{IA1: intPtr(30)},
		Remarks:   strPtr("needs to attend lab sessions"),
	})
	require.NoError(t, err)

	assert.Equal(t, "needs to attend lab sessions", rec.Remarks)
	assert.Equal(t, "needs to attend lab sessions", repo.stored("student-1").Remarks)

	// A nil remarks pointer leaves the stored remarks alone.
	rec, err = h.Handle(context.Background(), UpdateMarksCommand{
		Teacher:   mlTeacher,
		StudentID: "student-1",
		Marks:     record.MarksUpdate{IA2: intPtr(25)},
	})
	require.NoError(t, err)
	assert.Equal(t, "needs to attend lab sessions", rec.Remarks)
}

func TestUpdateMarks_AuthorizationFailures(t *testing.T) {
	repo := newFakeRepo()
	seedRecord(repo, "student-1")
	h := NewUpdateMarksHandler(repo, nil, nil, DefaultEnrichmentConfig(), nil)

	// Teacher without an assigned subject.
	_, err := h.Handle(context.Background(), UpdateMarksCommand{
		Teacher:   TeacherRef{Email: "guest@edupulse.com"},
		StudentID: "student-1",
		Marks:     record.MarksUpdate{IA1: intPtr(10)},
	})
	assert.ErrorIs(t, err, shared.ErrNoAssignedSubject)

	// Naming another teacher's subject fails even for an existing student.
	_, err = h.Handle(context.Background(), UpdateMarksCommand{
		Teacher:   mlTeacher,
		StudentID: "student-1",
		Subject:   "Cloud Computing",
		Marks:     record.MarksUpdate{IA1: intPtr(10)},
	})
	assert.ErrorIs(t, err, shared.ErrSubjectNotOwned)

	// The same request fails identically when the student does not exist.
	_, err = h.Handle(context.Background(), UpdateMarksCommand{
		Teacher:   mlTeacher,
		StudentID: "missing",
		Subject:   "Cloud Computing",
		Marks:     record.MarksUpdate{IA1: intPtr(10)},
	})
	assert.ErrorIs(t, err, shared.ErrSubjectNotOwned)

	assert.Zero(t, repo.subjectWrites)
}

func TestUpdateMarks_RecordNotFound(t *testing.T) {
	repo := newFakeRepo()
	h := NewUpdateMarksHandler(repo, nil, nil, DefaultEnrichmentConfig(), nil)

	_, err := h.Handle(context.Background(), UpdateMarksCommand{
		Teacher:   mlTeacher,
		StudentID: "missing",
		Marks:     record.MarksUpdate{IA1: intPtr(10)},
	})
	assert.ErrorIs(t, err, shared.ErrRecordNotFound)
}

func TestUpdateMarks_MissingStudentID(t *testing.T) {
	repo := newFakeRepo()
	h := NewUpdateMarksHandler(repo, nil, nil, DefaultEnrichmentConfig(), nil)

	_, err := h.Handle(context.Background(), UpdateMarksCommand{
		Teacher: mlTeacher,
		Marks:   record.MarksUpdate{IA1: intPtr(10)},
	})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateMarks_ClassifierFailureDoesNotBlock(t *testing.T) {
	repo := newFakeRepo()
	seedRecord(repo, "student-1")
	clf := &fakeClassifier{err: shared.ErrClassifierUnavailable}
	h := NewUpdateMarksHandler(repo, clf, nil, DefaultEnrichmentConfig(), nil)

	rec, err := h.Handle(context.Background(), UpdateMarksCommand{
		Teacher:   mlTeacher,
		StudentID: "student-1",
		Marks:     record.MarksUpdate{IA1: intPtr(40)},
	})
	require.NoError(t, err)

	// Marks landed, prior (unanalyzed) classification untouched.
	sub, err := rec.Subject("Machine Learning")
	require.NoError(t, err)
	assert.Equal(t, 40, sub.IA1)
	assert.Equal(t, record.RiskNotAnalyzed, rec.RiskLevel)
	assert.Equal(t, record.CategoryNotAnalyzed, rec.LearnerCategory)
	assert.Zero(t, repo.classificationWrites)
}

func TestUpdateMarks_InvalidClassifierOutputSuppressed(t *testing.T) {
	repo := newFakeRepo()
	seedRecord(repo, "student-1")
	clf := &fakeClassifier{result: &record.Classification{
		PerformanceScore: 50,
		LearnerCategory:  "Genius",
		RiskLevel:        record.RiskLow,
	}}
	h := NewUpdateMarksHandler(repo, clf, nil, DefaultEnrichmentConfig(), nil)

	rec, err := h.Handle(context.Background(), UpdateMarksCommand{
		Teacher:   mlTeacher,
		StudentID: "student-1",
		Marks:     record.MarksUpdate{IA1: intPtr(40)},
	})
	require.NoError(t, err)
	assert.Equal(t, record.RiskNotAnalyzed, rec.RiskLevel)
	assert.Zero(t, repo.classificationWrites)
}

func TestUpdateMarks_ClassificationPersistFailureSuppressed(t *testing.T) {
	repo := newFakeRepo()
	seedRecord(repo, "student-1")
	repo.updateClassificationErr = errors.New("connection reset")
	clf := &fakeClassifier{result: lowRiskClassification()}
	h := NewUpdateMarksHandler(repo, clf, nil, DefaultEnrichmentConfig(), nil)

	_, err := h.Handle(context.Background(), UpdateMarksCommand{
		Teacher:   mlTeacher,
		StudentID: "student-1",
		Marks:     record.MarksUpdate{IA1: intPtr(40)},
	})
	require.NoError(t, err)

	stored := repo.stored("student-1")
	assert.Equal(t, record.RiskNotAnalyzed, stored.RiskLevel)
}

func TestUpdateMarks_SubjectWriteFailurePropagates(t *testing.T) {
	repo := newFakeRepo()
	seedRecord(repo, "student-1")
	repo.updateSubjectErr = errors.New("connection reset")
	clf := &fakeClassifier{result: lowRiskClassification()}
	inv := &fakeInvalidator{}
	h := NewUpdateMarksHandler(repo, clf, inv, DefaultEnrichmentConfig(), nil)

	_, err := h.Handle(context.Background(), UpdateMarksCommand{
		Teacher:   mlTeacher,
		StudentID: "student-1",
		Marks:     record.MarksUpdate{IA1: intPtr(40)},
	})
	require.Error(t, err)

	// Failed primary write means no enrichment and no invalidation.
	assert.Zero(t, clf.calls)
	assert.Zero(t, inv.calls)
}

func TestUpdateMarks_ClassifierInputAggregates(t *testing.T) {
	repo := newFakeRepo()
	seedRecord(repo, "student-1")
	clf := &fakeClassifier{result: lowRiskClassification()}
	cfg := EnrichmentConfig{ImprovementRate: 42}
	h := NewUpdateMarksHandler(repo, clf, nil, cfg, nil)

	_, err := h.Handle(context.Background(), UpdateMarksCommand{
		Teacher:   mlTeacher,
		StudentID: "student-1",
		Marks: record.MarksUpdate{
			IA1: intPtr(50), IA2: intPtr(50), Assignment: intPtr(10),
		},
	})
	require.NoError(t, err)

	require.Equal(t, 1, clf.calls)
	// One subject at full CIE out of five: 50/5 = 10 avg CIE -> 20%.
	assert.InDelta(t, 20.0, clf.lastIn.AvgMarks, 0.001)
	assert.Zero(t, clf.lastIn.Attendance)
	assert.Equal(t, 42.0, clf.lastIn.ImprovementRate)
}
