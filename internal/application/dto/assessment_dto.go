package dto

import (
	"fmt"
	"time"

	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/pkg/constants"
)

// EvaluateRequest is the body of POST /api/evaluate.
type EvaluateRequest struct {
	Answers []int   `json:"answers"`
	Height  float64 `json:"height"`
	Weight  float64 `json:"weight"`
}

// ToDomain converts the request into an orchestrator work unit.
func (r *EvaluateRequest) ToDomain() models.AssessmentRequest {
	return models.AssessmentRequest{
		Answers: models.Answers(append([]int(nil), r.Answers...)),
		Body:    models.Anthropometrics{HeightCm: r.Height, WeightKg: r.Weight},
	}
}

// EvaluateResponse keeps the field names existing clients of /api/evaluate read,
// plus the structured fields the line-oriented report could not carry.
type EvaluateResponse struct {
	ID               string    `json:"id"`
	CompletedAt      time.Time `json:"completedAt"`
	Score            int       `json:"score"`
	BMI              float64   `json:"bmi"`
	BMICategory      string    `json:"bmiCategory"`
	RiskFactors      []string  `json:"riskFactors"`
	Assessment       string    `json:"assessment"`
	Risk             string    `json:"risk"`
	Recommendations  []string  `json:"recommendations"`
	AverageScore     float64   `json:"averageScore"`
	TotalAssessments int64     `json:"totalAssessments"`

	Breakdown         models.ScoreBreakdown `json:"breakdown"`
	ImplausibleHeight bool                  `json:"implausible_height,omitempty"`
	ImplausibleWeight bool                  `json:"implausible_weight,omitempty"`
}

// NewEvaluateResponse flattens a report. maxFactors limits the riskFactors list; 0 keeps all.
func NewEvaluateResponse(r *models.AssessmentReport, maxFactors int) *EvaluateResponse {
	factors := r.RiskFactors
	if maxFactors > 0 && len(factors) > maxFactors {
		factors = factors[:maxFactors]
	}
	lines := make([]string, 0, len(factors))
	for _, f := range factors {
		lines = append(lines, RiskFactorLine(f))
	}

	return &EvaluateResponse{
		ID:                r.ID,
		CompletedAt:       r.CompletedAt,
		Score:             r.Score,
		BMI:               r.BMI.Rounded(),
		BMICategory:       string(r.BMI.Category),
		RiskFactors:       lines,
		Assessment:        AssessmentLine(r.Tier, r.TierHeadline),
		Risk:              string(r.Tier),
		Recommendations:   append([]string{}, r.Recommendations...),
		AverageScore:      models.RoundOneDecimal(r.AverageScore()),
		TotalAssessments:  r.Stats.TotalAssessments,
		Breakdown:         r.Breakdown,
		ImplausibleHeight: r.ImplausibleHeight,
		ImplausibleWeight: r.ImplausibleWeight,
	}
}

// RiskFactorLine renders one contribution as "Question <n> (Points: <p>)".
func RiskFactorLine(c models.Contribution) string {
	return fmt.Sprintf("Question %d (Points: %d)", c.Question, c.Points)
}

// AssessmentLine renders the verdict as "<TIER> Risk: <headline>".
func AssessmentLine(tier models.RiskTier, headline string) string {
	return fmt.Sprintf("%s Risk: %s", tier, headline)
}

// HistoryEntryDTO is one row of GET /api/history.
type HistoryEntryDTO struct {
	Timestamp string  `json:"timestamp"`
	Score     int     `json:"score"`
	BMI       float64 `json:"bmi"`
	Risk      string  `json:"risk"`
}

// HistoryResponse lists records most recent first.
type HistoryResponse struct {
	History []HistoryEntryDTO `json:"history"`
}

// NewHistoryResponse converts ledger records; the input order is preserved.
func NewHistoryResponse(records []models.AssessmentRecord) *HistoryResponse {
	out := &HistoryResponse{History: make([]HistoryEntryDTO, 0, len(records))}
	for _, rec := range records {
		out.History = append(out.History, HistoryEntryDTO{
			Timestamp: rec.Timestamp.Format(constants.HistoryTimestampLayout),
			Score:     rec.Score,
			BMI:       models.RoundOneDecimal(rec.BMI),
			Risk:      string(rec.Tier),
		})
	}
	return out
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	TotalUsers   int64   `json:"totalUsers"`
	SumOfScores  int64   `json:"sumOfScores"`
	AverageScore float64 `json:"averageScore"`
}

// NewStatsResponse converts an aggregate snapshot.
func NewStatsResponse(s models.AggregateStats) *StatsResponse {
	return &StatsResponse{
		TotalUsers:   s.TotalAssessments,
		SumOfScores:  s.SumOfScores,
		AverageScore: s.Average(),
	}
}

// QuestionOptionDTO is one selectable answer.
type QuestionOptionDTO struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// QuestionDTO is one entry of the questionnaire catalogue.
type QuestionDTO struct {
	ID      int                 `json:"id"`
	Text    string              `json:"text"`
	Options []QuestionOptionDTO `json:"options"`
}

// QuestionsResponse is the body of GET /api/questions. Point values are not exposed.
type QuestionsResponse struct {
	Questions []QuestionDTO `json:"questions"`
}

// NewQuestionsResponse builds the catalogue from the active scoring tables.
func NewQuestionsResponse(questions []models.QuestionWeights) *QuestionsResponse {
	out := &QuestionsResponse{Questions: make([]QuestionDTO, 0, len(questions))}
	for _, q := range questions {
		dtoQ := QuestionDTO{ID: q.ID, Text: q.Text, Options: make([]QuestionOptionDTO, 0, len(q.Options))}
		for _, o := range q.Options {
			dtoQ.Options = append(dtoQ.Options, QuestionOptionDTO{Value: o.Value, Label: o.Label})
		}
		out.Questions = append(out.Questions, dtoQ)
	}
	return out
}
