// Package application bundles the command and query handlers of the scoring
// engine behind a single wiring point for embedding services.
package application

import (
	"log/slog"

	"github.com/edupulse/academic-engine/internal/application/command"
	"github.com/edupulse/academic-engine/internal/application/query"
	"github.com/edupulse/academic-engine/internal/domain/record"
)

// Engine exposes every operation of the scoring engine. Transport layers
// (HTTP routers, RPC surfaces) are external collaborators that call these
// handlers directly.
type Engine struct {
	UpdateMarks      *command.UpdateMarksHandler
	RecordAttendance *command.RecordAttendanceHandler
	EnrollStudent    *command.EnrollStudentHandler
	ResetRecords     *command.ResetRecordsHandler

	GetRecord      *query.GetRecordHandler
	ListRecords    *query.ListRecordsHandler
	ClassAnalytics *query.ClassAnalyticsHandler
}

// Dependencies holds everything an Engine needs. Cache and Invalidator may
// be nil; analytics then scans the store on every read.
type Dependencies struct {
	Repo        record.Repository
	Classifier  command.Classifier
	Cache       query.AnalyticsCache
	Invalidator command.AnalyticsInvalidator
	Catalog     record.Catalog
	Enrichment  command.EnrichmentConfig
	Logger      *slog.Logger
}

// NewEngine wires all handlers from shared dependencies.
func NewEngine(deps Dependencies) *Engine {
	return &Engine{
		UpdateMarks:      command.NewUpdateMarksHandler(deps.Repo, deps.Classifier, deps.Invalidator, deps.Enrichment, deps.Logger),
		RecordAttendance: command.NewRecordAttendanceHandler(deps.Repo, deps.Classifier, deps.Invalidator, deps.Enrichment, deps.Logger),
		EnrollStudent:    command.NewEnrollStudentHandler(deps.Repo, deps.Catalog, deps.Logger),
		ResetRecords:     command.NewResetRecordsHandler(deps.Repo, deps.Catalog, deps.Invalidator, deps.Logger),
		GetRecord:        query.NewGetRecordHandler(deps.Repo),
		ListRecords:      query.NewListRecordsHandler(deps.Repo),
		ClassAnalytics:   query.NewClassAnalyticsHandler(deps.Repo, deps.Cache, deps.Logger),
	}
}
