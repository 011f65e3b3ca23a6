// Package query contains the read operations of the scoring engine:
// single-record reads, roster listings, and the class analytics scan.
// Queries never mutate state; teachers and students read all subjects of
// any record they are allowed to see, ownership only gates writes.
package query
