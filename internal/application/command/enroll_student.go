package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/edupulse/academic-engine/internal/domain/record"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLL STUDENT COMMAND
// Creates the one-and-only academic record for a student account, with
// every catalog subject pre-seeded at zero values.
// ══════════════════════════════════════════════════════════════════════════════

// EnrollStudentCommand creates a student's academic record at account
// creation time.
type EnrollStudentCommand struct {
	// StudentID is the owning student identity. When empty a new UUID is
	// generated (account creation and record creation happen together).
	StudentID string

	// ExternalID is the registration identifier (e.g. a USN), optional.
	ExternalID string
}

// EnrollStudentHandler handles EnrollStudentCommand.
type EnrollStudentHandler struct {
	repo    record.Repository
	catalog record.Catalog
	logger  *slog.Logger
}

// NewEnrollStudentHandler creates a new EnrollStudentHandler using the
// injected subject catalog.
func NewEnrollStudentHandler(repo record.Repository, catalog record.Catalog, logger *slog.Logger) *EnrollStudentHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &EnrollStudentHandler{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
	}
}

// Handle creates and stores the seeded record. Returns
// shared.ErrRecordAlreadyExists when the student already has one.
func (h *EnrollStudentHandler) Handle(ctx context.Context, cmd EnrollStudentCommand) (*record.StudentRecord, error) {
	studentID := cmd.StudentID
	if studentID == "" {
		studentID = uuid.NewString()
	}

	rec, err := record.NewStudentRecord(studentID, cmd.ExternalID, h.catalog)
	if err != nil {
		return nil, fmt.Errorf("enroll_student: %w", err)
	}

	if err := h.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("enroll_student: %w", err)
	}

	h.logger.Info("student record created",
		"student_id", rec.StudentID,
		"subjects", len(rec.Subjects),
	)

	return rec, nil
}
