// Package record contains the academic record domain model: the per-student
// aggregate of subject marks, attendance, and risk classification.
//
// This is the core of the scoring engine. The package holds the CIE
// formula, the clamping rules for raw marks, attendance upsert semantics,
// and the subject catalog used to seed new records. It has no external
// dependencies; persistence and the classifier live in infrastructure.
//
// Key invariants maintained here:
//
//   - TotalCIE is always derived via CalcCIE from (IA1, IA2, Assignment);
//     no caller writes it directly.
//   - AttendancePct always equals round(100 * present / total) over the
//     subject's attendance entries, and 0 when there are none.
//   - A subject holds at most one attendance entry per calendar date.
//   - The subject list is seeded from the catalog at creation time and is
//     never reordered or resized afterwards.
package record
