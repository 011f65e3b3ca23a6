// Package command contains the write operations of the scoring engine:
// mark updates, attendance updates, enrollment, and bulk reset. Each
// command is validated, authorized against subject ownership, applied to
// the domain aggregate, and persisted through the record repository.
// Classifier enrichment runs after the primary write and never fails it.
package command
