package classifier

import (
	"context"
	"math"

	"github.com/edupulse/academic-engine/internal/application/command"
	"github.com/edupulse/academic-engine/internal/domain/record"
)

// ══════════════════════════════════════════════════════════════════════════════
// RULE-BASED CLASSIFIER
// Local, deterministic implementation of the classification port with the
// same scoring rules the remote service applies. Selected by configuration
// when no service URL is set; useful for development and air-gapped installs.
// ══════════════════════════════════════════════════════════════════════════════

// Score weights and category thresholds.
const (
	weightMarks       = 0.6
	weightAttendance  = 0.3
	weightImprovement = 0.1

	thresholdFast    = 75.0
	thresholdAverage = 50.0
)

// Recommendation texts keyed by learner category.
const (
	recommendationFast = "Outstanding performance! Consider enrolling in advanced courses, " +
		"joining academic competitions, or exploring research projects to maximize your potential."
	recommendationAverage = "Good effort! Focus on your weaker subjects, create a structured revision plan, " +
		"and attend extra tutoring sessions to move to the next level."
	recommendationSlow = "Immediate action required. Schedule counselling sessions, build a daily study plan, " +
		"improve attendance, and seek peer support or mentoring to get back on track."

	attendanceNoteCritical = " Attendance is critically low — prioritize attending all classes."
	attendanceNoteLow      = " Improve attendance to boost overall performance."
)

// RuleBased is a deterministic in-process classifier.
type RuleBased struct{}

var _ command.Classifier = (*RuleBased)(nil)

// NewRuleBased creates a rule-based classifier.
func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

// Classify computes the weighted performance score and derives the learner
// category, risk level, and recommendation from it.
func (r *RuleBased) Classify(_ context.Context, in command.ClassifierInput) (*record.Classification, error) {
	score := PerformanceScore(in.AvgMarks, in.Attendance, in.ImprovementRate)

	var (
		category record.LearnerCategory
		risk     record.RiskLevel
		base     string
	)
	switch {
	case score >= thresholdFast:
		category, risk, base = record.CategoryFast, record.RiskLow, recommendationFast
	case score >= thresholdAverage:
		category, risk, base = record.CategoryAverage, record.RiskMedium, recommendationAverage
	default:
		category, risk, base = record.CategorySlow, record.RiskHigh, recommendationSlow
	}

	recommendation := base
	switch {
	case in.Attendance < 60:
		recommendation += attendanceNoteCritical
	case in.Attendance < 75:
		recommendation += attendanceNoteLow
	}

	return &record.Classification{
		PerformanceScore: score,
		LearnerCategory:  category,
		RiskLevel:        risk,
		Recommendation:   recommendation,
	}, nil
}

// PerformanceScore computes the weighted composite score, rounded to two
// decimal places. All inputs are on a 0-100 scale.
//
// score = 0.6*marks + 0.3*attendance + 0.1*improvement
func PerformanceScore(avgMarks, attendance, improvementRate float64) float64 {
	score := weightMarks*avgMarks + weightAttendance*attendance + weightImprovement*improvementRate
	return math.Round(score*100) / 100
}
