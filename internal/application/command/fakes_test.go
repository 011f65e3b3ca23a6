package command

import (
	"context"
	"errors"
	"sync"

	"github.com/edupulse/academic-engine/internal/domain/record"
	"github.com/edupulse/academic-engine/internal/domain/shared"
)

// fakeRepo is an in-memory record.Repository for handler tests.
type fakeRepo struct {
	mu      sync.Mutex
	records map[string]*record.StudentRecord

	updateSubjectErr        error
	updateClassificationErr error

	classificationWrites int
	subjectWrites        int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[string]*record.StudentRecord)}
}

func (f *fakeRepo) Create(_ context.Context, rec *record.StudentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.records[rec.StudentID]; exists {
		return shared.ErrRecordAlreadyExists
	}
	f.records[rec.StudentID] = rec.Clone()
	return nil
}

func (f *fakeRepo) GetByStudentID(_ context.Context, studentID string) (*record.StudentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[studentID]
	if !ok {
		return nil, shared.ErrRecordNotFound
	}
	return rec.Clone(), nil
}

func (f *fakeRepo) GetAll(_ context.Context) ([]*record.StudentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	recs := make([]*record.StudentRecord, 0, len(f.records))
	for _, rec := range f.records {
		recs = append(recs, rec.Clone())
	}
	return recs, nil
}

func (f *fakeRepo) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records), nil
}

func (f *fakeRepo) Exists(_ context.Context, studentID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.records[studentID]
	return ok, nil
}

func (f *fakeRepo) UpdateSubject(_ context.Context, studentID string, idx int, sub record.SubjectRecord, remarks *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateSubjectErr != nil {
		return f.updateSubjectErr
	}

	rec, ok := f.records[studentID]
	if !ok {
		return shared.ErrRecordNotFound
	}
	if idx < 0 || idx >= len(rec.Subjects) {
		return errors.New("subject index out of range")
	}

	rec.Subjects[idx] = sub
	if remarks != nil {
		rec.Remarks = *remarks
	}
	f.subjectWrites++
	return nil
}

func (f *fakeRepo) UpdateClassification(_ context.Context, studentID string, c record.Classification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateClassificationErr != nil {
		return f.updateClassificationErr
	}

	rec, ok := f.records[studentID]
	if !ok {
		return shared.ErrRecordNotFound
	}

	rec.PerformanceScore = c.PerformanceScore
	rec.LearnerCategory = c.LearnerCategory
	rec.RiskLevel = c.RiskLevel
	rec.Recommendation = c.Recommendation
	f.classificationWrites++
	return nil
}

func (f *fakeRepo) DeleteAll(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.records)
	f.records = make(map[string]*record.StudentRecord)
	return n, nil
}

// stored returns the authoritative stored copy for assertions.
func (f *fakeRepo) stored(studentID string) *record.StudentRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[studentID].Clone()
}

// fakeClassifier returns a fixed classification or a fixed error.
type fakeClassifier struct {
	result *record.Classification
	err    error

	calls  int
	lastIn ClassifierInput
}

func (f *fakeClassifier) Classify(_ context.Context, in ClassifierInput) (*record.Classification, error) {
	f.calls++
	f.lastIn = in
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// fakeInvalidator counts invalidation calls.
type fakeInvalidator struct {
	calls int
	err   error
}

func (f *fakeInvalidator) InvalidateAnalytics(_ context.Context) error {
	f.calls++
	return f.err
}

func lowRiskClassification() *record.Classification {
	return &record.Classification{
		PerformanceScore: 82.4,
		LearnerCategory:  record.CategoryFast,
		RiskLevel:        record.RiskLow,
		Recommendation:   "Outstanding performance!",
	}
}

func seedRecord(repo *fakeRepo, studentID string) *record.StudentRecord {
	rec, err := record.NewStudentRecord(studentID, "1VE21CS001", record.DefaultCatalog())
	if err != nil {
		panic(err)
	}
	if err := repo.Create(context.Background(), rec); err != nil {
		panic(err)
	}
	return rec
}
