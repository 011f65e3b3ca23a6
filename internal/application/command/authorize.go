package command

import (
	"github.com/go-playground/validator/v10"

	"github.com/edupulse/academic-engine/internal/domain/record"
	"github.com/edupulse/academic-engine/internal/domain/shared"
)

// validate is the shared struct validator for command payloads.
var validate = validator.New()

// validateStruct maps validator failures onto the domain validation error.
func validateStruct(cmd interface{}) error {
	if err := validate.Struct(cmd); err != nil {
		return shared.WrapError("record", "Validate", shared.ErrValidation, "invalid command payload", err)
	}
	return nil
}

// TeacherRef is the caller-asserted teacher identity as supplied by the
// identity service: a verified email plus the single subject name the
// teacher is assigned to. An empty Subject means no assignment. The engine
// trusts this identity; credentials are verified upstream.
type TeacherRef struct {
	Email   string
	Subject string
}

// authorizeTarget checks subject ownership before any record is loaded.
// A teacher with no assigned subject is rejected outright, and a request
// naming a subject other than the teacher's own fails regardless of
// whether the student exists.
func authorizeTarget(t TeacherRef, targetSubject string) error {
	if t.Subject == "" {
		return shared.ErrNoAssignedSubject
	}
	if targetSubject != "" && targetSubject != t.Subject {
		return shared.ErrSubjectNotOwned
	}
	return nil
}

// ownedSubjectIndex locates the teacher's subject within a loaded record.
// Teachers read all subjects freely but mutate only their own; a record
// that lacks the assigned subject (catalog drift) is treated the same as
// not owning it.
func ownedSubjectIndex(rec *record.StudentRecord, t TeacherRef) (int, error) {
	idx := rec.SubjectIndex(t.Subject)
	if idx < 0 {
		return 0, shared.ErrSubjectNotOwned
	}
	return idx, nil
}
