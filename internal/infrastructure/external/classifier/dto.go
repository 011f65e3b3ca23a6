package classifier

import (
	"fmt"

	"github.com/edupulse/academic-engine/internal/domain/record"
	"github.com/edupulse/academic-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// WIRE TYPES
// ══════════════════════════════════════════════════════════════════════════════

// PredictRequestDTO is the JSON body posted to the prediction service.
// All three inputs are on a 0-100 scale.
type PredictRequestDTO struct {
	AvgMarks        float64 `json:"avg_marks"`
	Attendance      float64 `json:"attendance"`
	ImprovementRate float64 `json:"improvement_rate"`
}

// PredictResponseDTO is the JSON body returned by the prediction service.
type PredictResponseDTO struct {
	PerformanceScore float64 `json:"performance_score"`
	LearnerCategory  string  `json:"learner_category"`
	RiskLevel        string  `json:"risk_level"`
	Recommendation   string  `json:"recommendation"`
}

// HealthResponseDTO is the JSON body of the service health endpoint.
type HealthResponseDTO struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// toClassification maps a response onto the domain type, rejecting values
// outside the known category and risk vocabularies.
func (d PredictResponseDTO) toClassification() (*record.Classification, error) {
	c := record.Classification{
		PerformanceScore: d.PerformanceScore,
		LearnerCategory:  record.LearnerCategory(d.LearnerCategory),
		RiskLevel:        record.RiskLevel(d.RiskLevel),
		Recommendation:   d.Recommendation,
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrClassifierInvalidResponse, err)
	}

	return &c, nil
}
