package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/edupulse/academic-engine/internal/domain/record"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLASS ANALYTICS QUERY
// Read-only full-roster scan producing distribution summaries. Roster
// sizes are hundreds of records, so a whole-scan aggregation is fine.
// ══════════════════════════════════════════════════════════════════════════════

// ClassAnalytics is the roster-wide distribution summary.
type ClassAnalytics struct {
	// TotalStudents is the count of records scanned.
	TotalStudents int `json:"total_students"`

	// AtRiskStudents counts records with RiskLevel "High".
	AtRiskStudents int `json:"at_risk_students"`

	// ClassAvgScore is the mean performance score, one decimal place.
	// Unanalyzed records contribute their default 0.
	ClassAvgScore float64 `json:"class_avg_score"`

	// RiskBreakdown maps every risk tier to its count, zero-filled.
	RiskBreakdown map[record.RiskLevel]int `json:"risk_breakdown"`

	// CategoryBreakdown maps every learner category to its count, zero-filled.
	CategoryBreakdown map[record.LearnerCategory]int `json:"category_breakdown"`

	// GeneratedAt is when the scan ran.
	GeneratedAt time.Time `json:"generated_at"`
}

// AnalyticsCache stores a recently computed ClassAnalytics snapshot.
// ErrAnalyticsCacheMiss signals absence; any other error is treated as a
// degraded cache and the scan proceeds directly.
type AnalyticsCache interface {
	GetAnalytics(ctx context.Context) (*ClassAnalytics, error)
	SetAnalytics(ctx context.Context, a *ClassAnalytics) error
}

// ErrAnalyticsCacheMiss is returned by AnalyticsCache implementations when
// no snapshot is cached.
var ErrAnalyticsCacheMiss = errors.New("analytics: cache miss")

// ClassAnalyticsQuery requests the roster summary.
type ClassAnalyticsQuery struct {
	// SkipCache forces a fresh scan.
	SkipCache bool
}

// ClassAnalyticsHandler handles ClassAnalyticsQuery.
type ClassAnalyticsHandler struct {
	repo   record.Repository
	cache  AnalyticsCache
	logger *slog.Logger
}

// NewClassAnalyticsHandler creates a new ClassAnalyticsHandler. The cache
// may be nil; every query then scans the store.
func NewClassAnalyticsHandler(repo record.Repository, cache AnalyticsCache, logger *slog.Logger) *ClassAnalyticsHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &ClassAnalyticsHandler{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Handle returns the roster analytics, served from cache when fresh.
func (h *ClassAnalyticsHandler) Handle(ctx context.Context, q ClassAnalyticsQuery) (*ClassAnalytics, error) {
	if h.cache != nil && !q.SkipCache {
		cached, err := h.cache.GetAnalytics(ctx)
		switch {
		case err == nil:
			return cached, nil
		case errors.Is(err, ErrAnalyticsCacheMiss):
			// fall through to scan
		default:
			h.logger.Warn("analytics cache degraded, scanning directly", "error", err)
		}
	}

	recs, err := h.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("class_analytics: %w", err)
	}

	analytics := Aggregate(recs)

	if h.cache != nil {
		if err := h.cache.SetAnalytics(ctx, analytics); err != nil {
			h.logger.Warn("failed to cache analytics snapshot", "error", err)
		}
	}

	return analytics, nil
}

// Aggregate computes the distribution summary over a set of records.
// Every risk tier and learner category is present in the breakdowns even
// at count zero, so the counts always sum to TotalStudents.
func Aggregate(recs []*record.StudentRecord) *ClassAnalytics {
	analytics := &ClassAnalytics{
		TotalStudents:     len(recs),
		RiskBreakdown:     make(map[record.RiskLevel]int, 4),
		CategoryBreakdown: make(map[record.LearnerCategory]int, 4),
		GeneratedAt:       time.Now().UTC(),
	}

	for _, tier := range record.RiskLevels() {
		analytics.RiskBreakdown[tier] = 0
	}
	for _, cat := range record.LearnerCategories() {
		analytics.CategoryBreakdown[cat] = 0
	}

	scoreSum := 0.0
	for _, rec := range recs {
		risk := rec.RiskLevel
		if !risk.IsValid() {
			risk = record.RiskNotAnalyzed
		}
		category := rec.LearnerCategory
		if !category.IsValid() {
			category = record.CategoryNotAnalyzed
		}

		analytics.RiskBreakdown[risk]++
		analytics.CategoryBreakdown[category]++

		if risk == record.RiskHigh {
			analytics.AtRiskStudents++
		}
		scoreSum += rec.PerformanceScore
	}

	if analytics.TotalStudents > 0 {
		avg := scoreSum / float64(analytics.TotalStudents)
		analytics.ClassAvgScore = math.Round(avg*10) / 10
	}

	return analytics
}
