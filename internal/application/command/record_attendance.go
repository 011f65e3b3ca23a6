package command

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/edupulse/academic-engine/internal/domain/record"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD ATTENDANCE COMMAND
// Upserts one daily attendance entry for the teacher's subject and
// recomputes the attendance percentage.
// ══════════════════════════════════════════════════════════════════════════════

// RecordAttendanceCommand marks a student present or absent on one date.
// Re-marking an existing date updates it in place; the same date never
// appears twice in a subject's attendance sequence.
type RecordAttendanceCommand struct {
	// Teacher is the verified caller identity with its assigned subject.
	Teacher TeacherRef

	// StudentID identifies the target record.
	StudentID string `validate:"required"`

	// Subject optionally names the intended subject, as in UpdateMarks.
	Subject string

	// Date is the calendar date in YYYY-MM-DD form.
	Date string `validate:"required,datetime=2006-01-02"`

	// Present is the presence flag for that date.
	Present bool
}

// Validate validates the command payload.
func (c RecordAttendanceCommand) Validate() error {
	return validateStruct(c)
}

// RecordAttendanceHandler handles RecordAttendanceCommand.
type RecordAttendanceHandler struct {
	repo        record.Repository
	enricher    *enricher
	invalidator AnalyticsInvalidator
	logger      *slog.Logger
}

// NewRecordAttendanceHandler creates a new RecordAttendanceHandler. The
// classifier and invalidator may be nil.
func NewRecordAttendanceHandler(
	repo record.Repository,
	classifier Classifier,
	invalidator AnalyticsInvalidator,
	cfg EnrichmentConfig,
	logger *slog.Logger,
) *RecordAttendanceHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &RecordAttendanceHandler{
		repo:        repo,
		enricher:    newEnricher(repo, classifier, cfg, logger),
		invalidator: invalidator,
		logger:      logger,
	}
}

// Handle executes the attendance upsert and returns the updated record.
// Re-applying the same date and presence is idempotent.
func (h *RecordAttendanceHandler) Handle(ctx context.Context, cmd RecordAttendanceCommand) (*record.StudentRecord, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_attendance: %w", err)
	}

	if err := authorizeTarget(cmd.Teacher, cmd.Subject); err != nil {
		return nil, fmt.Errorf("record_attendance: %w", err)
	}

	rec, err := h.repo.GetByStudentID(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("record_attendance: %w", err)
	}

	idx, err := ownedSubjectIndex(rec, cmd.Teacher)
	if err != nil {
		return nil, fmt.Errorf("record_attendance: %w", err)
	}

	sub := &rec.Subjects[idx]
	sub.UpsertAttendance(cmd.Date, cmd.Present, time.Now())

	if err := h.repo.UpdateSubject(ctx, cmd.StudentID, idx, *sub, nil); err != nil {
		return nil, fmt.Errorf("record_attendance: persist subject: %w", err)
	}

	h.logger.Info("attendance recorded",
		"student_id", cmd.StudentID,
		"subject", sub.Name,
		"date", cmd.Date,
		"present", cmd.Present,
		"attendance_pct", sub.AttendancePct,
	)

	h.enricher.enrich(ctx, rec)
	invalidateAnalytics(ctx, h.invalidator, h.logger)

	return rec, nil
}
