package record

import (
	"errors"
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT CATALOG
// ══════════════════════════════════════════════════════════════════════════════

// CatalogSubject describes one subject in the fixed term catalog: its
// display name, course code, and the identity of the single teacher
// authorized to mutate it.
type CatalogSubject struct {
	Name    string
	Code    string
	Teacher string
}

// Catalog is the ordered, injected subject configuration used to seed new
// student records. The engine treats it as immutable for the term.
type Catalog []CatalogSubject

// Catalog errors.
var (
	ErrCatalogDuplicateName = errors.New("catalog: duplicate subject name")
	ErrCatalogMissingField  = errors.New("catalog: subject name, code and teacher are required")
)

// Validate checks the catalog for empty fields and duplicate names.
// Subject names must be unique because teacher authorization and record
// mutation both resolve subjects by name.
func (c Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c))
	for _, s := range c {
		if s.Name == "" || s.Code == "" || s.Teacher == "" {
			return fmt.Errorf("%w: %+v", ErrCatalogMissingField, s)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("%w: %s", ErrCatalogDuplicateName, s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}

// Contains reports whether the catalog defines the named subject.
func (c Catalog) Contains(name string) bool {
	for _, s := range c {
		if s.Name == name {
			return true
		}
	}
	return false
}

// SubjectForTeacher returns the subject assigned to the given teacher
// identity, or false when the teacher owns no catalog subject.
func (c Catalog) SubjectForTeacher(teacher string) (CatalogSubject, bool) {
	for _, s := range c {
		if s.Teacher == teacher {
			return s, true
		}
	}
	return CatalogSubject{}, false
}

// DefaultCatalog returns the VTU sixth-semester subject roster the system
// ships with. Deployments override it through configuration.
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "Cloud Computing", Code: "BCS601", Teacher: "sanketh@edupulse.com"},
		{Name: "Machine Learning", Code: "BCS602", Teacher: "vinutha@edupulse.com"},
		{Name: "Blockchain Technology", Code: "BCS613A", Teacher: "shivanad@edupulse.com"},
		{Name: "Open Elective", Code: "BXX654x", Teacher: "rajesh@edupulse.com"},
		{Name: "Indian Knowledge System", Code: "BIKS609", Teacher: "sunil@edupulse.com"},
	}
}
