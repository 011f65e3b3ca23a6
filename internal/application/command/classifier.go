package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/edupulse/academic-engine/internal/domain/record"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLASSIFIER PORT
// ══════════════════════════════════════════════════════════════════════════════

// ClassifierInput is the aggregate payload sent to the risk classifier.
// All values are percentages in [0, 100].
type ClassifierInput struct {
	// AvgMarks is the record's mean CIE expressed as a percentage.
	AvgMarks float64

	// Attendance is the mean attendance percentage across subjects.
	Attendance float64

	// ImprovementRate is a fixed configured input (see EnrichmentConfig).
	ImprovementRate float64
}

// Classifier is the external classification capability. Implementations
// must return an error on unreachable endpoints, timeouts, and malformed
// responses; callers treat any error as "skip enrichment".
type Classifier interface {
	Classify(ctx context.Context, in ClassifierInput) (*record.Classification, error)
}

// AnalyticsInvalidator drops cached roster analytics after a mutation.
// Implementations are best-effort; failures are logged and ignored.
type AnalyticsInvalidator interface {
	InvalidateAnalytics(ctx context.Context) error
}

// ══════════════════════════════════════════════════════════════════════════════
// BEST-EFFORT ENRICHMENT
// ══════════════════════════════════════════════════════════════════════════════

// EnrichmentConfig controls the classifier enrichment pass.
type EnrichmentConfig struct {
	// ImprovementRate is the fixed improvement-rate input, 0-100.
	ImprovementRate float64

	// Timeout bounds a single classifier call.
	Timeout time.Duration
}

// DefaultEnrichmentConfig returns the stock enrichment settings.
func DefaultEnrichmentConfig() EnrichmentConfig {
	return EnrichmentConfig{
		ImprovementRate: 60,
		Timeout:         5 * time.Second,
	}
}

// enricher runs the classifier after a primary write and persists its
// output as a separate update. Classification is optional enrichment:
// every failure here is suppressed so the surrounding mutation still
// reports success.
type enricher struct {
	repo       record.Repository
	classifier Classifier
	config     EnrichmentConfig
	logger     *slog.Logger
}

func newEnricher(repo record.Repository, classifier Classifier, cfg EnrichmentConfig, logger *slog.Logger) *enricher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultEnrichmentConfig().Timeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &enricher{
		repo:       repo,
		classifier: classifier,
		config:     cfg,
		logger:     logger,
	}
}

// enrich classifies the record's current aggregates and persists the result.
// Returns true when classification fields were updated. The record is
// mutated in place on success so callers return fresh data.
func (e *enricher) enrich(ctx context.Context, rec *record.StudentRecord) bool {
	if e.classifier == nil {
		return false
	}

	in := ClassifierInput{
		AvgMarks:        rec.AverageCIEPercent(),
		Attendance:      rec.AverageAttendancePct(),
		ImprovementRate: e.config.ImprovementRate,
	}

	callCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	result, err := e.classifier.Classify(callCtx, in)
	if err != nil {
		e.logger.Warn("classifier unavailable, keeping previous classification",
			"student_id", rec.StudentID, "error", err)
		return false
	}

	if err := rec.ApplyClassification(*result); err != nil {
		e.logger.Warn("classifier returned invalid classification",
			"student_id", rec.StudentID, "error", err)
		return false
	}

	if err := e.repo.UpdateClassification(ctx, rec.StudentID, *result); err != nil {
		e.logger.Warn("failed to persist classification",
			"student_id", rec.StudentID, "error", err)
		return false
	}

	return true
}

// invalidateAnalytics drops the cached roster analytics, logging failures.
func invalidateAnalytics(ctx context.Context, inv AnalyticsInvalidator, logger *slog.Logger) {
	if inv == nil {
		return
	}
	if err := inv.InvalidateAnalytics(ctx); err != nil && logger != nil {
		logger.Warn("failed to invalidate analytics cache", "error", err)
	}
}
