package models

import "time"

// AssessmentEvent is published after an assessment has been persisted.
type AssessmentEvent struct {
	AssessmentID     string    `json:"assessment_id"`
	CompletedAt      time.Time `json:"completed_at"`
	Score            int       `json:"score"`
	BMI              float64   `json:"bmi"`
	BMICategory      string    `json:"bmi_category"`
	Tier             RiskTier  `json:"risk"`
	TotalAssessments int64     `json:"total_assessments"`
	AverageScore     float64   `json:"average_score"`
}

// NewAssessmentEvent flattens a report into its published form.
func NewAssessmentEvent(r *AssessmentReport) AssessmentEvent {
	return AssessmentEvent{
		AssessmentID:     r.ID,
		CompletedAt:      r.CompletedAt,
		Score:            r.Score,
		BMI:              r.BMI.Rounded(),
		BMICategory:      string(r.BMI.Category),
		Tier:             r.Tier,
		TotalAssessments: r.Stats.TotalAssessments,
		AverageScore:     RoundOneDecimal(r.Stats.Average()),
	}
}
