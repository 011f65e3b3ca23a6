package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/edupulse/academic-engine/internal/domain/record"
	"github.com/edupulse/academic-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT RECORD REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// RecordRepository implements record.Repository backed by PostgreSQL.
type RecordRepository struct {
	conn *Connection
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(conn *Connection) *RecordRepository {
	return &RecordRepository{conn: conn}
}

const recordColumns = `
	student_id, external_id, subjects, performance_score,
	learner_category, risk_level, recommendation, remarks,
	created_at, updated_at
`

// Create stores a newly seeded record.
func (r *RecordRepository) Create(ctx context.Context, rec *record.StudentRecord) error {
	subjectsJSON, err := json.Marshal(rec.Subjects)
	if err != nil {
		return fmt.Errorf("record_repo: failed to marshal subjects: %w", err)
	}

	query := `
		INSERT INTO student_records (
			student_id, external_id, subjects, performance_score,
			learner_category, risk_level, recommendation, remarks,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.conn.Exec(ctx, query,
		rec.StudentID,
		rec.ExternalID,
		subjectsJSON,
		rec.PerformanceScore,
		string(rec.LearnerCategory),
		string(rec.RiskLevel),
		rec.Recommendation,
		rec.Remarks,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("record_repo: %w", shared.ErrRecordAlreadyExists)
		}
		return fmt.Errorf("record_repo: failed to create record: %w", err)
	}

	return nil
}

// GetByStudentID returns the record for a student.
func (r *RecordRepository) GetByStudentID(ctx context.Context, studentID string) (*record.StudentRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM student_records WHERE student_id = $1`

	row := r.conn.QueryRow(ctx, query, studentID)
	rec, err := scanRecord(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, fmt.Errorf("record_repo: %w", shared.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("record_repo: failed to get record: %w", err)
	}

	return rec, nil
}

// GetAll returns every record in the roster ordered by creation time.
func (r *RecordRepository) GetAll(ctx context.Context) ([]*record.StudentRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM student_records ORDER BY created_at`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("record_repo: failed to list records: %w", err)
	}
	defer rows.Close()

	var recs []*record.StudentRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("record_repo: failed to scan record: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("record_repo: row iteration failed: %w", err)
	}

	return recs, nil
}

// Count returns the number of records.
func (r *RecordRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM student_records`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("record_repo: failed to count records: %w", err)
	}
	return count, nil
}

// Exists reports whether a record exists for the student.
func (r *RecordRepository) Exists(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM student_records WHERE student_id = $1)`,
		studentID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("record_repo: failed to check existence: %w", err)
	}
	return exists, nil
}

// UpdateSubject replaces one subject element of the JSONB document and
// optionally the record-level remarks in a single UPDATE, so marks and the
// derived CIE total land together or not at all.
func (r *RecordRepository) UpdateSubject(ctx context.Context, studentID string, idx int, sub record.SubjectRecord, remarks *string) error {
	subjectJSON, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("record_repo: failed to marshal subject: %w", err)
	}

	query := `
		UPDATE student_records
		SET subjects = jsonb_set(subjects, ARRAY[$2::text], $3::jsonb),
		    remarks = COALESCE($4, remarks),
		    updated_at = $5
		WHERE student_id = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		studentID,
		fmt.Sprintf("%d", idx),
		subjectJSON,
		remarks,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record_repo: failed to update subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record_repo: %w", shared.ErrRecordNotFound)
	}

	return nil
}

// UpdateClassification persists classifier output onto the record.
func (r *RecordRepository) UpdateClassification(ctx context.Context, studentID string, c record.Classification) error {
	query := `
		UPDATE student_records
		SET performance_score = $2,
		    learner_category = $3,
		    risk_level = $4,
		    recommendation = $5,
		    updated_at = $6
		WHERE student_id = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		studentID,
		c.PerformanceScore,
		string(c.LearnerCategory),
		string(c.RiskLevel),
		c.Recommendation,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record_repo: failed to update classification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record_repo: %w", shared.ErrRecordNotFound)
	}

	return nil
}

// DeleteAll removes every record and returns the number removed.
func (r *RecordRepository) DeleteAll(ctx context.Context) (int, error) {
	tag, err := r.conn.Exec(ctx, `DELETE FROM student_records`)
	if err != nil {
		return 0, fmt.Errorf("record_repo: failed to delete records: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ROW SCANNING
// ══════════════════════════════════════════════════════════════════════════════

// rowScanner abstracts pgx.Row and pgx.Rows for scanRecord.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*record.StudentRecord, error) {
	var (
		rec          record.StudentRecord
		subjectsJSON []byte
		category     string
		risk         string
	)

	err := row.Scan(
		&rec.StudentID,
		&rec.ExternalID,
		&subjectsJSON,
		&rec.PerformanceScore,
		&category,
		&risk,
		&rec.Recommendation,
		&rec.Remarks,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(subjectsJSON, &rec.Subjects); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subjects: %w", err)
	}

	rec.LearnerCategory = record.LearnerCategory(category)
	rec.RiskLevel = record.RiskLevel(risk)

	return &rec, nil
}
