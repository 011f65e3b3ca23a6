package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edupulse/academic-engine/internal/domain/record"
	"github.com/edupulse/academic-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESET RECORDS COMMAND
// Bulk administrative reset: the only deletion path for student records.
// Used between terms to wipe and optionally re-seed the roster.
// ══════════════════════════════════════════════════════════════════════════════

// ResetRecordsCommand wipes all student records and optionally re-seeds
// fresh zero-value records for the given roster.
type ResetRecordsCommand struct {
	// AdminEmail is the caller identity; the identity service marks the
	// caller as administrative upstream, the engine only requires it to be
	// asserted.
	AdminEmail string

	// Reseed lists student identities to re-enroll after the wipe.
	Reseed []ResetSeed
}

// ResetSeed is one student to re-enroll after a reset.
type ResetSeed struct {
	StudentID  string
	ExternalID string
}

// ResetRecordsResult summarizes a bulk reset.
type ResetRecordsResult struct {
	Deleted  int
	Reseeded int
}

// ResetRecordsHandler handles ResetRecordsCommand.
type ResetRecordsHandler struct {
	repo        record.Repository
	catalog     record.Catalog
	invalidator AnalyticsInvalidator
	logger      *slog.Logger
}

// NewResetRecordsHandler creates a new ResetRecordsHandler. The invalidator
// may be nil when no analytics cache is configured.
func NewResetRecordsHandler(repo record.Repository, catalog record.Catalog, invalidator AnalyticsInvalidator, logger *slog.Logger) *ResetRecordsHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &ResetRecordsHandler{
		repo:        repo,
		catalog:     catalog,
		invalidator: invalidator,
		logger:      logger,
	}
}

// Handle wipes every record and re-enrolls the requested roster.
func (h *ResetRecordsHandler) Handle(ctx context.Context, cmd ResetRecordsCommand) (*ResetRecordsResult, error) {
	if cmd.AdminEmail == "" {
		return nil, fmt.Errorf("reset_records: %w", shared.ErrAdminOnly)
	}

	deleted, err := h.repo.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reset_records: wipe: %w", err)
	}

	result := &ResetRecordsResult{Deleted: deleted}

	for _, seed := range cmd.Reseed {
		rec, err := record.NewStudentRecord(seed.StudentID, seed.ExternalID, h.catalog)
		if err != nil {
			return result, fmt.Errorf("reset_records: seed %s: %w", seed.StudentID, err)
		}
		if err := h.repo.Create(ctx, rec); err != nil {
			return result, fmt.Errorf("reset_records: seed %s: %w", seed.StudentID, err)
		}
		result.Reseeded++
	}

	invalidateAnalytics(ctx, h.invalidator, h.logger)

	h.logger.Info("roster reset",
		"deleted", result.Deleted,
		"reseeded", result.Reseeded,
		"by", cmd.AdminEmail,
	)

	return result, nil
}
