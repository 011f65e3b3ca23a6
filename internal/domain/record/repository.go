package record

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// The contract for the student-record store. Implementations live in
// infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines persistence operations for student records.
type Repository interface {
	// Create stores a newly seeded record.
	// Returns shared.ErrRecordAlreadyExists when a record exists for the
	// same student identity.
	Create(ctx context.Context, rec *StudentRecord) error

	// GetByStudentID returns the record for a student.
	// Returns shared.ErrRecordNotFound when absent.
	GetByStudentID(ctx context.Context, studentID string) (*StudentRecord, error)

	// GetAll returns every record in the roster. The engine assumes roster
	// sizes of hundreds, not millions; no pagination is offered.
	GetAll(ctx context.Context) ([]*StudentRecord, error)

	// Count returns the number of records.
	Count(ctx context.Context) (int, error)

	// Exists reports whether a record exists for the student.
	Exists(ctx context.Context, studentID string) (bool, error)

	// UpdateSubject persists one mutated subject element (marks, derived
	// TotalCIE, attendance, AttendancePct, UpdatedAt) at the given index,
	// together with an optional record-level remarks overwrite, as a single
	// indivisible write. No reader may observe marks without the matching
	// TotalCIE. Returns shared.ErrRecordNotFound when the record is absent.
	UpdateSubject(ctx context.Context, studentID string, idx int, sub SubjectRecord, remarks *string) error

	// UpdateClassification persists classifier output onto the record.
	// This is a separate, best-effort second write after UpdateSubject.
	UpdateClassification(ctx context.Context, studentID string, c Classification) error

	// DeleteAll removes every record. Bulk administrative reset is the only
	// deletion path in the record lifecycle. Returns the number removed.
	DeleteAll(ctx context.Context) (int, error)
}
