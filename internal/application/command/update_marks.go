package command

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/edupulse/academic-engine/internal/domain/record"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE MARKS COMMAND
// Applies a partial, subject-scoped, teacher-authorized marks update to one
// student's record and re-derives the CIE for the touched subject.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateMarksCommand is a partial marks payload for the teacher's own
// subject. Absent fields leave stored values untouched.
type UpdateMarksCommand struct {
	// Teacher is the verified caller identity with its assigned subject.
	Teacher TeacherRef

	// StudentID identifies the target record.
	StudentID string `validate:"required"`

	// Subject optionally names the subject the caller intends to mutate.
	// When set it must match the teacher's assigned subject; when empty
	// the assigned subject is used.
	Subject string

	// Marks carries the module, IA and assignment changes.
	Marks record.MarksUpdate

	// Remarks, when non-nil, overwrites the record-level remarks field.
	Remarks *string
}

// Validate validates the command payload.
func (c UpdateMarksCommand) Validate() error {
	return validateStruct(c)
}

// UpdateMarksHandler handles UpdateMarksCommand.
type UpdateMarksHandler struct {
	repo        record.Repository
	enricher    *enricher
	invalidator AnalyticsInvalidator
	logger      *slog.Logger
}

// NewUpdateMarksHandler creates a new UpdateMarksHandler. The classifier
// and invalidator may be nil; both are optional enrichment.
func NewUpdateMarksHandler(
	repo record.Repository,
	classifier Classifier,
	invalidator AnalyticsInvalidator,
	cfg EnrichmentConfig,
	logger *slog.Logger,
) *UpdateMarksHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &UpdateMarksHandler{
		repo:        repo,
		enricher:    newEnricher(repo, classifier, cfg, logger),
		invalidator: invalidator,
		logger:      logger,
	}
}

// Handle executes the marks update and returns the fully updated record.
//
// The primary write (marks + derived TotalCIE + UpdatedAt, plus optional
// remarks) is applied as one indivisible repository operation. Classifier
// enrichment runs afterwards and is allowed to fail or go stale without
// affecting the reported result.
func (h *UpdateMarksHandler) Handle(ctx context.Context, cmd UpdateMarksCommand) (*record.StudentRecord, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("update_marks: %w", err)
	}

	if err := authorizeTarget(cmd.Teacher, cmd.Subject); err != nil {
		return nil, fmt.Errorf("update_marks: %w", err)
	}

	rec, err := h.repo.GetByStudentID(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("update_marks: %w", err)
	}

	idx, err := ownedSubjectIndex(rec, cmd.Teacher)
	if err != nil {
		return nil, fmt.Errorf("update_marks: %w", err)
	}

	sub := &rec.Subjects[idx]
	sub.ApplyMarks(cmd.Marks, time.Now())

	if err := h.repo.UpdateSubject(ctx, cmd.StudentID, idx, *sub, cmd.Remarks); err != nil {
		return nil, fmt.Errorf("update_marks: persist subject: %w", err)
	}

	if cmd.Remarks != nil {
		rec.SetRemarks(*cmd.Remarks)
	}

	h.logger.Info("marks updated",
		"student_id", cmd.StudentID,
		"subject", sub.Name,
		"total_cie", sub.TotalCIE,
		"by", cmd.Teacher.Email,
	)

	h.enricher.enrich(ctx, rec)
	invalidateAnalytics(ctx, h.invalidator, h.logger)

	return rec, nil
}
