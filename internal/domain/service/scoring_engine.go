package service

import (
	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/pkg/errors"
)

// ScoringEngine maps answers to point contributions using a validated weight table.
// It is immutable after construction and safe for concurrent use.
type ScoringEngine struct {
	// weights[i][value] is the points for option value of question i (0-based).
	weights   []map[int]int
	bmiPoints models.BMIPoints
}

// NewScoringEngine builds the lookup tables. tables must already be validated.
func NewScoringEngine(tables models.ScoringTables) *ScoringEngine {
	weights := make([]map[int]int, len(tables.Questions))
	for i, q := range tables.Questions {
		weights[i] = make(map[int]int, len(q.Options))
		for _, o := range q.Options {
			weights[i][o.Value] = o.Points
		}
	}
	return &ScoringEngine{weights: weights, bmiPoints: tables.BMIPoints}
}

// QuestionCount is the number of answers a submission must carry.
func (e *ScoringEngine) QuestionCount() int {
	return len(e.weights)
}

// Validate rejects a wrong answer count or any value not defined for its question.
func (e *ScoringEngine) Validate(answers models.Answers) error {
	if len(answers) != len(e.weights) {
		return errors.ErrAnswerCount(len(e.weights), len(answers))
	}
	for i, v := range answers {
		if _, ok := e.weights[i][v]; !ok {
			return errors.ErrUnknownOption(i+1, v)
		}
	}
	return nil
}

// Score computes the per-question breakdown and the BMI contribution.
// Unrecognized answers are a validation error, never a silent zero.
func (e *ScoringEngine) Score(answers models.Answers, bmi models.BMIResult) (models.ScoreBreakdown, error) {
	if err := e.Validate(answers); err != nil {
		return models.ScoreBreakdown{}, err
	}

	breakdown := models.ScoreBreakdown{
		Questions: make([]models.Contribution, len(answers)),
		BMIPoints: e.bmiPoints.For(bmi.Category),
	}
	for i, v := range answers {
		breakdown.Questions[i] = models.Contribution{
			Question: i + 1,
			Value:    v,
			Points:   e.weights[i][v],
		}
	}
	return breakdown, nil
}
