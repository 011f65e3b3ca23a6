package record

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// BOUNDS & FORMULA
// ══════════════════════════════════════════════════════════════════════════════

// Raw mark bounds. Values outside these ranges are clamped, not rejected.
const (
	MaxUnitTestMarks = 20
	MaxIAMarks       = 50
	MaxAssignment    = 10
	MaxCIE           = 50

	// rawCIETotal is the maximum raw sum IA1 + IA2 + Assignment.
	rawCIETotal = 110

	// ModuleCount is the fixed number of syllabus modules per subject.
	ModuleCount = 5
)

// DateLayout is the calendar-date format used by attendance entries.
const DateLayout = "2006-01-02"

// CalcCIE computes the composite internal-evaluation score out of 50 from
// the two internal-assessment marks and the assignment mark. Inputs must
// already be clamped to their individual bounds by the caller.
//
// CIE = round((ia1 + ia2 + assignment) / 110 * 50)
func CalcCIE(ia1, ia2, assignment int) int {
	return int(math.Round(float64(ia1+ia2+assignment) / rawCIETotal * MaxCIE))
}

// Clamp bounds v into [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// LearnerCategory buckets a student's overall academic trajectory.
type LearnerCategory string

const (
	CategoryFast        LearnerCategory = "Fast Learner"
	CategoryAverage     LearnerCategory = "Average Learner"
	CategorySlow        LearnerCategory = "Slow Learner"
	CategoryNotAnalyzed LearnerCategory = "Not Analyzed"
)

// IsValid checks that the category is one of the known buckets.
func (c LearnerCategory) IsValid() bool {
	switch c {
	case CategoryFast, CategoryAverage, CategorySlow, CategoryNotAnalyzed:
		return true
	default:
		return false
	}
}

// LearnerCategories lists all categories in reporting order.
func LearnerCategories() []LearnerCategory {
	return []LearnerCategory{CategoryFast, CategoryAverage, CategorySlow, CategoryNotAnalyzed}
}

// RiskLevel indicates the likelihood of a student falling behind.
type RiskLevel string

const (
	RiskLow         RiskLevel = "Low"
	RiskMedium      RiskLevel = "Medium"
	RiskHigh        RiskLevel = "High"
	RiskNotAnalyzed RiskLevel = "Not Analyzed"
)

// IsValid checks that the risk level is one of the known tiers.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskNotAnalyzed:
		return true
	default:
		return false
	}
}

// RiskLevels lists all risk tiers in reporting order.
func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskNotAnalyzed}
}

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED TYPES
// ══════════════════════════════════════════════════════════════════════════════

// ModuleScore is a per-syllabus-module unit test score, informational only
// (it does not feed the CIE formula).
type ModuleScore struct {
	ModuleNo      int `json:"moduleNo"`
	UnitTestMarks int `json:"unitTestMarks"`
}

// AttendanceEntry records presence for one calendar date.
type AttendanceEntry struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Present bool   `json:"present"`
}

// SubjectRecord is the per-subject slice of a student's academic record.
// Name, Code and Teacher are fixed by the catalog at seeding time.
type SubjectRecord struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Teacher string `json:"teacher"`

	Modules []ModuleScore `json:"modules"`

	IA1        int `json:"ia1"`
	IA2        int `json:"ia2"`
	Assignment int `json:"assignment"`

	// TotalCIE is derived via CalcCIE; never set directly.
	TotalCIE int `json:"totalCIE"`

	Attendance    []AttendanceEntry `json:"attendance"`
	AttendancePct int               `json:"attendancePct"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Classification is the output of the risk classifier.
type Classification struct {
	PerformanceScore float64
	LearnerCategory  LearnerCategory
	RiskLevel        RiskLevel
	Recommendation   string
}

// Validate checks the classifier output before it is persisted.
func (c Classification) Validate() error {
	if c.PerformanceScore < 0 || c.PerformanceScore > 100 {
		return fmt.Errorf("%w: performance score %.2f out of [0,100]", ErrInvalidClassification, c.PerformanceScore)
	}
	if !c.LearnerCategory.IsValid() {
		return fmt.Errorf("%w: unknown learner category %q", ErrInvalidClassification, c.LearnerCategory)
	}
	if !c.RiskLevel.IsValid() {
		return fmt.Errorf("%w: unknown risk level %q", ErrInvalidClassification, c.RiskLevel)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT RECORD
// ══════════════════════════════════════════════════════════════════════════════

// StudentRecord is the per-student academic aggregate: one SubjectRecord per
// catalog subject plus record-level classification fields and remarks.
type StudentRecord struct {
	// StudentID references the owning student identity. Immutable, unique.
	StudentID string

	// ExternalID is a free-form registration identifier (e.g. a USN),
	// maintained by administrative process rather than this engine.
	ExternalID string

	// Subjects is the fixed, catalog-seeded subject list. Never reordered
	// or resized after creation.
	Subjects []SubjectRecord

	PerformanceScore float64
	LearnerCategory  LearnerCategory
	RiskLevel        RiskLevel
	Recommendation   string

	// Remarks is record-scoped and overwritten whole by whichever
	// subject-owning teacher wrote last. Accepted last-writer-wins field.
	Remarks string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Domain errors.
var (
	ErrEmptyStudentID        = errors.New("record: student id is required")
	ErrEmptyCatalog          = errors.New("record: subject catalog is empty")
	ErrUnknownSubject        = errors.New("record: subject not present in record")
	ErrUnknownModule         = errors.New("record: module number not present in subject")
	ErrInvalidClassification = errors.New("record: invalid classification")
)

// NewStudentRecord creates a record for a newly enrolled student with every
// catalog subject pre-seeded at zero values.
func NewStudentRecord(studentID, externalID string, catalog Catalog) (*StudentRecord, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, ErrEmptyStudentID
	}
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}

	now := time.Now().UTC()

	subjects := make([]SubjectRecord, 0, len(catalog))
	for _, cs := range catalog {
		subjects = append(subjects, newSubjectRecord(cs, now))
	}

	return &StudentRecord{
		StudentID:       studentID,
		ExternalID:      externalID,
		Subjects:        subjects,
		LearnerCategory: CategoryNotAnalyzed,
		RiskLevel:       RiskNotAnalyzed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func newSubjectRecord(cs CatalogSubject, now time.Time) SubjectRecord {
	modules := make([]ModuleScore, ModuleCount)
	for i := range modules {
		modules[i] = ModuleScore{ModuleNo: i + 1}
	}

	return SubjectRecord{
		Name:      cs.Name,
		Code:      cs.Code,
		Teacher:   cs.Teacher,
		Modules:   modules,
		UpdatedAt: now,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT LOOKUP
// ══════════════════════════════════════════════════════════════════════════════

// SubjectIndex returns the position of the named subject, or -1.
func (r *StudentRecord) SubjectIndex(name string) int {
	for i := range r.Subjects {
		if r.Subjects[i].Name == name {
			return i
		}
	}
	return -1
}

// Subject returns a pointer into the record's subject slice.
func (r *StudentRecord) Subject(name string) (*SubjectRecord, error) {
	idx := r.SubjectIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSubject, name)
	}
	return &r.Subjects[idx], nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MARKS MUTATION
// ══════════════════════════════════════════════════════════════════════════════

// MarksUpdate is a partial, subject-scoped marks payload. Nil pointers and
// absent module numbers leave the stored values untouched.
type MarksUpdate struct {
	// Modules maps moduleNo -> unitTestMarks. Unknown module numbers are
	// ignored, matching the fixed 1..5 module layout.
	Modules map[int]int

	IA1        *int
	IA2        *int
	Assignment *int
}

// IsEmpty reports whether the update would change nothing.
func (u MarksUpdate) IsEmpty() bool {
	return len(u.Modules) == 0 && u.IA1 == nil && u.IA2 == nil && u.Assignment == nil
}

// ApplyMarks applies a partial marks update to the subject. Supplied values
// are clamped into their bounds; untouched fields keep their stored values.
// TotalCIE is recomputed from the effective values and UpdatedAt is stamped,
// so a subsequent persist of the whole subject is internally consistent.
func (s *SubjectRecord) ApplyMarks(u MarksUpdate, now time.Time) {
	for no, marks := range u.Modules {
		for i := range s.Modules {
			if s.Modules[i].ModuleNo == no {
				s.Modules[i].UnitTestMarks = Clamp(marks, 0, MaxUnitTestMarks)
				break
			}
		}
	}

	if u.IA1 != nil {
		s.IA1 = Clamp(*u.IA1, 0, MaxIAMarks)
	}
	if u.IA2 != nil {
		s.IA2 = Clamp(*u.IA2, 0, MaxIAMarks)
	}
	if u.Assignment != nil {
		s.Assignment = Clamp(*u.Assignment, 0, MaxAssignment)
	}

	s.TotalCIE = CalcCIE(s.IA1, s.IA2, s.Assignment)
	s.UpdatedAt = now.UTC()
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE MUTATION
// ══════════════════════════════════════════════════════════════════════════════

// UpsertAttendance records presence for a date. An existing entry for the
// same date is updated in place; otherwise a new entry is appended. The
// attendance percentage is recomputed over the full sequence.
func (s *SubjectRecord) UpsertAttendance(date string, present bool, now time.Time) {
	updated := false
	for i := range s.Attendance {
		if s.Attendance[i].Date == date {
			s.Attendance[i].Present = present
			updated = true
			break
		}
	}
	if !updated {
		s.Attendance = append(s.Attendance, AttendanceEntry{Date: date, Present: present})
	}

	s.AttendancePct = s.recalcAttendancePct()
	s.UpdatedAt = now.UTC()
}

// recalcAttendancePct returns round(100 * present / total), or 0 with no
// entries.
func (s *SubjectRecord) recalcAttendancePct() int {
	total := len(s.Attendance)
	if total == 0 {
		return 0
	}

	present := 0
	for _, e := range s.Attendance {
		if e.Present {
			present++
		}
	}

	return int(math.Round(float64(present) / float64(total) * 100))
}

// ══════════════════════════════════════════════════════════════════════════════
// RECORD-LEVEL AGGREGATES
// ══════════════════════════════════════════════════════════════════════════════

// AverageCIEPercent returns the record's mean CIE expressed as a 0-100
// percentage, the marks input to the risk classifier.
func (r *StudentRecord) AverageCIEPercent() float64 {
	if len(r.Subjects) == 0 {
		return 0
	}

	sum := 0
	for _, s := range r.Subjects {
		sum += s.TotalCIE
	}

	avgCIE := float64(sum) / float64(len(r.Subjects))
	return avgCIE / MaxCIE * 100
}

// AverageAttendancePct returns the mean attendance percentage across all
// subjects.
func (r *StudentRecord) AverageAttendancePct() float64 {
	if len(r.Subjects) == 0 {
		return 0
	}

	sum := 0
	for _, s := range r.Subjects {
		sum += s.AttendancePct
	}

	return float64(sum) / float64(len(r.Subjects))
}

// ApplyClassification persists classifier output onto the record fields.
func (r *StudentRecord) ApplyClassification(c Classification) error {
	if err := c.Validate(); err != nil {
		return err
	}

	r.PerformanceScore = c.PerformanceScore
	r.LearnerCategory = c.LearnerCategory
	r.RiskLevel = c.RiskLevel
	r.Recommendation = c.Recommendation
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// SetRemarks overwrites the record-level remarks field.
func (r *StudentRecord) SetRemarks(remarks string) {
	r.Remarks = remarks
	r.UpdatedAt = time.Now().UTC()
}

// String returns a compact representation for logging.
func (r *StudentRecord) String() string {
	return fmt.Sprintf("StudentRecord{StudentID: %s, Subjects: %d, Risk: %s}",
		r.StudentID, len(r.Subjects), r.RiskLevel)
}

// Clone creates a deep copy of the record.
func (r *StudentRecord) Clone() *StudentRecord {
	if r == nil {
		return nil
	}

	clone := *r
	clone.Subjects = make([]SubjectRecord, len(r.Subjects))
	for i, s := range r.Subjects {
		cs := s
		cs.Modules = append([]ModuleScore(nil), s.Modules...)
		cs.Attendance = append([]AttendanceEntry(nil), s.Attendance...)
		clone.Subjects[i] = cs
	}
	return &clone
}
