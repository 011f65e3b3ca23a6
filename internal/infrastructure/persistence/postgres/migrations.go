package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE STUDENT RECORDS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create student_records table
-- Version: 001

-- One row per student. The subject list is a JSONB document so that a
-- single subject element (marks + derived CIE + attendance) can be
-- replaced in one statement.
CREATE TABLE IF NOT EXISTS student_records (
    student_id UUID PRIMARY KEY,
    external_id VARCHAR(50) NOT NULL DEFAULT '',
    subjects JSONB NOT NULL DEFAULT '[]'::jsonb,
    performance_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    learner_category VARCHAR(30) NOT NULL DEFAULT 'Not Analyzed',
    risk_level VARCHAR(20) NOT NULL DEFAULT 'Not Analyzed',
    recommendation TEXT NOT NULL DEFAULT '',
    remarks TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    -- Constraints for data integrity
    CONSTRAINT valid_performance_score CHECK (performance_score >= 0 AND performance_score <= 100),
    CONSTRAINT valid_learner_category CHECK (learner_category IN ('Fast Learner', 'Average Learner', 'Slow Learner', 'Not Analyzed')),
    CONSTRAINT valid_risk_level CHECK (risk_level IN ('Low', 'Medium', 'High', 'Not Analyzed'))
);

-- Analytics scans group by risk and category
CREATE INDEX IF NOT EXISTS idx_student_records_risk_level ON student_records(risk_level);
CREATE INDEX IF NOT EXISTS idx_student_records_learner_category ON student_records(learner_category);
CREATE INDEX IF NOT EXISTS idx_student_records_external_id ON student_records(external_id) WHERE external_id != '';
`

const migration001Down = `
DROP INDEX IF EXISTS idx_student_records_external_id;
DROP INDEX IF EXISTS idx_student_records_learner_category;
DROP INDEX IF EXISTS idx_student_records_risk_level;
DROP TABLE IF EXISTS student_records;
`

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_student_records",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
	}
}
