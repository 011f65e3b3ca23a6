package query

import (
	"context"
	"fmt"

	"github.com/edupulse/academic-engine/internal/domain/record"
	"github.com/edupulse/academic-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET RECORD QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetRecordQuery fetches one student's full academic record.
type GetRecordQuery struct {
	StudentID string
}

// GetRecordHandler handles GetRecordQuery.
type GetRecordHandler struct {
	repo record.Repository
}

// NewGetRecordHandler creates a new GetRecordHandler.
func NewGetRecordHandler(repo record.Repository) *GetRecordHandler {
	return &GetRecordHandler{repo: repo}
}

// Handle returns the record, including all subjects. Read access is not
// subject-scoped: any verified caller with roster visibility may read every
// subject of the record.
func (h *GetRecordHandler) Handle(ctx context.Context, q GetRecordQuery) (*record.StudentRecord, error) {
	if q.StudentID == "" {
		return nil, fmt.Errorf("get_record: %w", shared.ErrInvalidStudentID)
	}

	rec, err := h.repo.GetByStudentID(ctx, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get_record: %w", err)
	}

	return rec, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LIST RECORDS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// ListRecordsQuery fetches the whole roster, e.g. for a teacher dashboard.
type ListRecordsQuery struct{}

// ListRecordsHandler handles ListRecordsQuery.
type ListRecordsHandler struct {
	repo record.Repository
}

// NewListRecordsHandler creates a new ListRecordsHandler.
func NewListRecordsHandler(repo record.Repository) *ListRecordsHandler {
	return &ListRecordsHandler{repo: repo}
}

// Handle returns every record in the roster.
func (h *ListRecordsHandler) Handle(ctx context.Context, _ ListRecordsQuery) ([]*record.StudentRecord, error) {
	recs, err := h.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list_records: %w", err)
	}
	return recs, nil
}
