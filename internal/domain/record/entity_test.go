package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func testCatalog() Catalog {
	return Catalog{
		{Name: "Cloud Computing", Code: "BCS601", Teacher: "sanketh@edupulse.com"},
		{Name: "Machine Learning", Code: "BCS602", Teacher: "vinutha@edupulse.com"},
	}
}

func TestCalcCIE(t *testing.T) {
	tests := []struct {
		name       string
		ia1        int
		ia2        int
		assignment int
		want       int
	}{
		{"all zero", 0, 0, 0, 0},
		{"all max", 50, 50, 10, 50},
		{"typical", 40, 38, 9, 40}, // 87/110*50 = 39.54 -> 40
		{"exact boundary", 44, 44, 0, 40},
		{"single component", 22, 0, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalcCIE(tt.ia1, tt.ia2, tt.assignment))
		})
	}
}

func TestCalcCIE_Monotonic(t *testing.T) {
	prev := CalcCIE(0, 0, 0)
	for ia1 := 0; ia1 <= 50; ia1 += 5 {
		cur := CalcCIE(ia1, 30, 5)
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 50, Clamp(999, 0, 50))
	assert.Equal(t, 0, Clamp(-5, 0, 50))
	assert.Equal(t, 25, Clamp(25, 0, 50))
}

func TestNewStudentRecord(t *testing.T) {
	rec, err := NewStudentRecord("student-1", "1VE21CS001", testCatalog())
	require.NoError(t, err)

	assert.Equal(t, "student-1", rec.StudentID)
	assert.Equal(t, "1VE21CS001", rec.ExternalID)
	assert.Equal(t, CategoryNotAnalyzed, rec.LearnerCategory)
	assert.Equal(t, RiskNotAnalyzed, rec.RiskLevel)

	require.Len(t, rec.Subjects, 2)
	for _, sub := range rec.Subjects {
		assert.Zero(t, sub.IA1)
		assert.Zero(t, sub.IA2)
		assert.Zero(t, sub.Assignment)
		assert.Zero(t, sub.TotalCIE)
		assert.Zero(t, sub.AttendancePct)
		assert.Empty(t, sub.Attendance)

		require.Len(t, sub.Modules, ModuleCount)
		for i, m := range sub.Modules {
			assert.Equal(t, i+1, m.ModuleNo)
			assert.Zero(t, m.UnitTestMarks)
		}
	}
}

func TestNewStudentRecord_Invalid(t *testing.T) {
	_, err := NewStudentRecord("  ", "", testCatalog())
	assert.ErrorIs(t, err, ErrEmptyStudentID)

	_, err = NewStudentRecord("student-1", "", nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestApplyMarks_PartialUpdate(t *testing.T) {
	rec, err := NewStudentRecord("student-1", "", testCatalog())
	require.NoError(t, err)

	sub := &rec.Subjects[0]
	now := time.Now()

	sub.ApplyMarks(MarksUpdate{IA1: intPtr(40), IA2: intPtr(38), Assignment: intPtr(9)}, now)
	assert.Equal(t, 40, sub.IA1)
	assert.Equal(t, 38, sub.IA2)
	assert.Equal(t, 9, sub.Assignment)
	assert.Equal(t, CalcCIE(40, 38, 9), sub.TotalCIE)

	// Updating only IA1 keeps the other stored values.
	sub.ApplyMarks(MarksUpdate{IA1: intPtr(45)}, now)
	assert.Equal(t, 45, sub.IA1)
	assert.Equal(t, 38, sub.IA2)
	assert.Equal(t, 9, sub.Assignment)
	assert.Equal(t, CalcCIE(45, 38, 9), sub.TotalCIE)
}

func TestApplyMarks_ClampsOutOfRange(t *testing.T) {
	rec, err := NewStudentRecord("student-1", "", testCatalog())
	require.NoError(t, err)

	sub := &rec.Subjects[0]
	sub.ApplyMarks(MarksUpdate{
		Modules:    map[int]int{1: 999, 2: -3},
		IA1:        intPtr(200),
		IA2:        intPtr(-1),
		Assignment: intPtr(11),
	}, time.Now())

	assert.Equal(t, MaxUnitTestMarks, sub.Modules[0].UnitTestMarks)
	assert.Zero(t, sub.Modules[1].UnitTestMarks)
	assert.Equal(t, MaxIAMarks, sub.IA1)
	assert.Zero(t, sub.IA2)
	assert.Equal(t, MaxAssignment, sub.Assignment)
	assert.Equal(t, CalcCIE(MaxIAMarks, 0, MaxAssignment), sub.TotalCIE)
}

func TestApplyMarks_UnknownModuleIgnored(t *testing.T) {
	rec, err := NewStudentRecord("student-1", "", testCatalog())
	require.NoError(t, err)

	sub := &rec.Subjects[0]
	sub.ApplyMarks(MarksUpdate{Modules: map[int]int{7: 15}}, time.Now())

	for _, m := range sub.Modules {
		assert.Zero(t, m.UnitTestMarks)
	}
}

func TestMarksUpdate_IsEmpty(t *testing.T) {
	assert.True(t, MarksUpdate{}.IsEmpty())
	assert.False(t, MarksUpdate{IA1: intPtr(0)}.IsEmpty())
	assert.False(t, MarksUpdate{Modules: map[int]int{1: 5}}.IsEmpty())
}

func TestUpsertAttendance(t *testing.T) {
	rec, err := NewStudentRecord("student-1", "", testCatalog())
	require.NoError(t, err)

	sub := &rec.Subjects[0]
	now := time.Now()

	sub.UpsertAttendance("2026-02-10", true, now)
	sub.UpsertAttendance("2026-02-11", false, now)
	require.Len(t, sub.Attendance, 2)
	assert.Equal(t, 50, sub.AttendancePct)

	// Re-marking a date updates in place instead of appending.
	sub.UpsertAttendance("2026-02-11", true, now)
	require.Len(t, sub.Attendance, 2)
	assert.Equal(t, 100, sub.AttendancePct)
}

func TestUpsertAttendance_Rounding(t *testing.T) {
	rec, err := NewStudentRecord("student-1", "", testCatalog())
	require.NoError(t, err)

	sub := &rec.Subjects[0]
	now := time.Now()

	sub.UpsertAttendance("2026-02-10", true, now)
	sub.UpsertAttendance("2026-02-11", true, now)
	sub.UpsertAttendance("2026-02-12", false, now)

	// 2/3 = 66.67 -> 67
	assert.Equal(t, 67, sub.AttendancePct)
}

func TestAttendancePct_NoEntries(t *testing.T) {
	rec, err := NewStudentRecord("student-1", "", testCatalog())
	require.NoError(t, err)

	assert.Zero(t, rec.Subjects[0].AttendancePct)
	assert.Zero(t, rec.AverageAttendancePct())
}

func TestAverageCIEPercent(t *testing.T) {
	rec, err := NewStudentRecord("student-1", "", testCatalog())
	require.NoError(t, err)

	now := time.Now()
	rec.Subjects[0].ApplyMarks(MarksUpdate{IA1: intPtr(50), IA2: intPtr(50), Assignment: intPtr(10)}, now)
	rec.Subjects[1].ApplyMarks(MarksUpdate{IA1: intPtr(0), IA2: intPtr(0), Assignment: intPtr(0)}, now)

	// (50 + 0) / 2 = 25 CIE -> 50%
	assert.InDelta(t, 50.0, rec.AverageCIEPercent(), 0.001)
}

func TestApplyClassification(t *testing.T) {
	rec, err := NewStudentRecord("student-1", "", testCatalog())
	require.NoError(t, err)

	c := Classification{
		PerformanceScore: 81.5,
		LearnerCategory:  CategoryFast,
		RiskLevel:        RiskLow,
		Recommendation:   "keep it up",
	}
	require.NoError(t, rec.ApplyClassification(c))

	assert.Equal(t, 81.5, rec.PerformanceScore)
	assert.Equal(t, CategoryFast, rec.LearnerCategory)
	assert.Equal(t, RiskLow, rec.RiskLevel)
	assert.Equal(t, "keep it up", rec.Recommendation)
}

func TestApplyClassification_Invalid(t *testing.T) {
	rec, err := NewStudentRecord("student-1", "", testCatalog())
	require.NoError(t, err)

	err = rec.ApplyClassification(Classification{
		PerformanceScore: 120,
		LearnerCategory:  CategoryFast,
		RiskLevel:        RiskLow,
	})
	assert.ErrorIs(t, err, ErrInvalidClassification)

	err = rec.ApplyClassification(Classification{
		PerformanceScore: 50,
		LearnerCategory:  "Genius",
		RiskLevel:        RiskLow,
	})
	assert.ErrorIs(t, err, ErrInvalidClassification)

	// Record fields untouched after rejected classifications.
	assert.Equal(t, CategoryNotAnalyzed, rec.LearnerCategory)
	assert.Equal(t, RiskNotAnalyzed, rec.RiskLevel)
}

func TestClone_DeepCopy(t *testing.T) {
	rec, err := NewStudentRecord("student-1", "", testCatalog())
	require.NoError(t, err)

	now := time.Now()
	rec.Subjects[0].UpsertAttendance("2026-02-10", true, now)

	clone := rec.Clone()
	clone.Subjects[0].ApplyMarks(MarksUpdate{IA1: intPtr(30)}, now)
	clone.Subjects[0].Attendance[0].Present = false
	clone.Subjects[0].Modules[0].UnitTestMarks = 15

	assert.Zero(t, rec.Subjects[0].IA1)
	assert.True(t, rec.Subjects[0].Attendance[0].Present)
	assert.Zero(t, rec.Subjects[0].Modules[0].UnitTestMarks)
}

func TestSubjectLookup(t *testing.T) {
	rec, err := NewStudentRecord("student-1", "", testCatalog())
	require.NoError(t, err)

	assert.Equal(t, 1, rec.SubjectIndex("Machine Learning"))
	assert.Equal(t, -1, rec.SubjectIndex("Quantum Computing"))

	sub, err := rec.Subject("Cloud Computing")
	require.NoError(t, err)
	assert.Equal(t, "BCS601", sub.Code)

	_, err = rec.Subject("Quantum Computing")
	assert.ErrorIs(t, err, ErrUnknownSubject)
}
