package models

import (
	"fmt"
	"math"
	"time"

	"github.com/turtacn/diabrisk/pkg/constants"
)

// RiskTier is one of six ordered severity labels assigned from the total score.
type RiskTier string

const (
	TierMinimal  RiskTier = "MINIMAL"
	TierLow      RiskTier = "LOW"
	TierModerate RiskTier = "MODERATE"
	TierElevated RiskTier = "ELEVATED"
	TierHigh     RiskTier = "HIGH"
	TierCritical RiskTier = "CRITICAL"
)

// AllTiers lists every tier in ascending severity.
var AllTiers = []RiskTier{TierMinimal, TierLow, TierModerate, TierElevated, TierHigh, TierCritical}

// Severity returns the tier's position in severity order, or -1 for an unknown tier.
func (t RiskTier) Severity() int {
	for i, tier := range AllTiers {
		if tier == t {
			return i
		}
	}
	return -1
}

// Valid reports whether t is one of the six known tiers.
func (t RiskTier) Valid() bool {
	return t.Severity() >= 0
}

// ParseRiskTier converts a stored tier name back into a RiskTier.
func ParseRiskTier(s string) (RiskTier, error) {
	t := RiskTier(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown risk tier %q", s)
	}
	return t, nil
}

// Answers is the ordered questionnaire submission; question identity is positional.
type Answers []int

// Anthropometrics carries the body measurements of one assessment.
type Anthropometrics struct {
	HeightCm float64 `json:"height"`
	WeightKg float64 `json:"weight"`
}

// ImplausibleHeight reports a height outside the expected human range.
func (a Anthropometrics) ImplausibleHeight() bool {
	return a.HeightCm < constants.MinPlausibleHeightCm || a.HeightCm > constants.MaxPlausibleHeightCm
}

// ImplausibleWeight reports a weight outside the expected human range.
func (a Anthropometrics) ImplausibleWeight() bool {
	return a.WeightKg < constants.MinPlausibleWeightKg || a.WeightKg > constants.MaxPlausibleWeightKg
}

// AssessmentRequest is one unit of work for the orchestrator.
type AssessmentRequest struct {
	Answers Answers
	Body    Anthropometrics
}

// BMIResult is the output of the BMI calculator. Value keeps full precision.
type BMIResult struct {
	Value    float64
	Category constants.BMICategory
}

// Rounded returns the BMI rounded to one decimal place for display.
func (b BMIResult) Rounded() float64 {
	return RoundOneDecimal(b.Value)
}

// RoundOneDecimal rounds half away from zero to one decimal place.
func RoundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

// Contribution is the point value one answer added to the total score.
type Contribution struct {
	// Question is the 1-based question number.
	Question int `json:"question"`
	Value    int `json:"value"`
	Points   int `json:"points"`
}

// ScoreBreakdown holds every per-question contribution plus the BMI contribution.
type ScoreBreakdown struct {
	Questions []Contribution `json:"questions"`
	BMIPoints int            `json:"bmi_points"`
}

// Total is the sum of all contributions.
func (b ScoreBreakdown) Total() int {
	total := b.BMIPoints
	for _, c := range b.Questions {
		total += c.Points
	}
	return total
}

// AssessmentRecord is the immutable unit written to the history log.
type AssessmentRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Score     int       `json:"score"`
	BMI       float64   `json:"bmi"`
	Tier      RiskTier  `json:"risk"`
}

// AggregateStats is the running population aggregate.
type AggregateStats struct {
	TotalAssessments int64 `json:"total_assessments"`
	SumOfScores      int64 `json:"sum_of_scores"`
}

// Average returns the mean score, or 0 when nothing has been recorded.
func (s AggregateStats) Average() float64 {
	if s.TotalAssessments <= 0 {
		return 0
	}
	return float64(s.SumOfScores) / float64(s.TotalAssessments)
}

// Add returns the aggregate after recording one more score.
func (s AggregateStats) Add(score int) AggregateStats {
	return AggregateStats{
		TotalAssessments: s.TotalAssessments + 1,
		SumOfScores:      s.SumOfScores + int64(score),
	}
}

// AssessmentReport is the structured result of a completed assessment.
type AssessmentReport struct {
	ID              string
	CompletedAt     time.Time
	Score           int
	BMI             BMIResult
	Tier            RiskTier
	TierHeadline    string
	RiskFactors     []Contribution
	Recommendations []string
	Breakdown       ScoreBreakdown
	Stats           AggregateStats

	ImplausibleHeight bool
	ImplausibleWeight bool
}

// AverageScore is the population average including this assessment.
func (r *AssessmentReport) AverageScore() float64 {
	return r.Stats.Average()
}
