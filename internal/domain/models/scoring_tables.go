package models

import (
	"fmt"

	"github.com/turtacn/diabrisk/pkg/constants"
	"github.com/turtacn/diabrisk/pkg/errors"
)

// OptionWeight maps one selectable option value to its point contribution.
type OptionWeight struct {
	Value  int    `mapstructure:"value" json:"value" yaml:"value"`
	Label  string `mapstructure:"label" json:"label" yaml:"label"`
	Points int    `mapstructure:"points" json:"points" yaml:"points"`
}

// QuestionWeights is the weight table of a single question.
type QuestionWeights struct {
	ID      int            `mapstructure:"id" json:"id" yaml:"id"`
	Text    string         `mapstructure:"text" json:"text" yaml:"text"`
	Options []OptionWeight `mapstructure:"options" json:"options" yaml:"options"`
}

// TierThreshold opens a tier at MinScore.
type TierThreshold struct {
	Tier     RiskTier `mapstructure:"tier" json:"tier" yaml:"tier"`
	MinScore int      `mapstructure:"min_score" json:"min_score" yaml:"min_score"`
	Headline string   `mapstructure:"headline" json:"headline" yaml:"headline"`
}

// TierRecommendations is the ordered advisory list for one tier.
type TierRecommendations struct {
	Tier  RiskTier `mapstructure:"tier" json:"tier" yaml:"tier"`
	Items []string `mapstructure:"items" json:"items" yaml:"items"`
}

// FactorAdvice is appended to the recommendations when its question contributed points.
type FactorAdvice struct {
	Question int    `mapstructure:"question" json:"question" yaml:"question"`
	Advice   string `mapstructure:"advice" json:"advice" yaml:"advice"`
}

// BMIPoints is the score contribution of each BMI category.
type BMIPoints struct {
	Underweight int `mapstructure:"underweight" json:"underweight" yaml:"underweight"`
	Normal      int `mapstructure:"normal" json:"normal" yaml:"normal"`
	Overweight  int `mapstructure:"overweight" json:"overweight" yaml:"overweight"`
	Obese       int `mapstructure:"obese" json:"obese" yaml:"obese"`
}

// For returns the points for a category; Unknown never scores.
func (p BMIPoints) For(category constants.BMICategory) int {
	switch category {
	case constants.BMIUnderweight:
		return p.Underweight
	case constants.BMINormal:
		return p.Normal
	case constants.BMIOverweight:
		return p.Overweight
	case constants.BMIObese:
		return p.Obese
	default:
		return 0
	}
}

// ScoringTables is the complete configuration the engine scores and classifies with.
type ScoringTables struct {
	Questions       []QuestionWeights     `mapstructure:"questions" json:"questions" yaml:"questions"`
	Thresholds      []TierThreshold       `mapstructure:"thresholds" json:"thresholds" yaml:"thresholds"`
	Recommendations []TierRecommendations `mapstructure:"recommendations" json:"recommendations" yaml:"recommendations"`
	FactorAdvice    []FactorAdvice        `mapstructure:"factor_advice" json:"factor_advice" yaml:"factor_advice"`
	BMIPoints       BMIPoints             `mapstructure:"bmi_points" json:"bmi_points" yaml:"bmi_points"`
}

// Validate checks that the tables are complete and cover the score axis.
// Call this once at startup or reload time, not on every request.
func (t *ScoringTables) Validate() error {
	if err := t.validateQuestions(); err != nil {
		return err
	}
	if err := t.validateThresholds(); err != nil {
		return err
	}
	if err := t.validateRecommendations(); err != nil {
		return err
	}
	for i, fa := range t.FactorAdvice {
		if fa.Question < 1 || fa.Question > len(t.Questions) {
			return errors.ErrConfiguration(fmt.Sprintf("factor_advice[%d]: question %d out of range", i, fa.Question))
		}
		if fa.Advice == "" {
			return errors.ErrConfiguration(fmt.Sprintf("factor_advice[%d]: advice must not be empty", i))
		}
	}
	p := t.BMIPoints
	if p.Underweight < 0 || p.Normal < 0 || p.Overweight < 0 || p.Obese < 0 {
		return errors.ErrConfiguration("bmi_points must not be negative")
	}
	return nil
}

func (t *ScoringTables) validateQuestions() error {
	if len(t.Questions) != constants.QuestionCount {
		return errors.ErrConfiguration(fmt.Sprintf("expected %d questions, got %d", constants.QuestionCount, len(t.Questions)))
	}
	for i, q := range t.Questions {
		if q.ID != i+1 {
			return errors.ErrConfiguration(fmt.Sprintf("question at position %d has id %d, want %d", i, q.ID, i+1))
		}
		if len(q.Options) == 0 {
			return errors.ErrConfiguration(fmt.Sprintf("question %d has no options", q.ID))
		}
		seen := make(map[int]bool, len(q.Options))
		for _, o := range q.Options {
			if seen[o.Value] {
				return errors.ErrConfiguration(fmt.Sprintf("question %d: duplicate option value %d", q.ID, o.Value))
			}
			seen[o.Value] = true
			if o.Points < 0 {
				return errors.ErrConfiguration(fmt.Sprintf("question %d option %d: negative points %d", q.ID, o.Value, o.Points))
			}
		}
	}
	return nil
}

func (t *ScoringTables) validateThresholds() error {
	if len(t.Thresholds) != len(AllTiers) {
		return errors.ErrConfiguration(fmt.Sprintf("expected %d thresholds, got %d", len(AllTiers), len(t.Thresholds)))
	}
	for i, th := range t.Thresholds {
		if th.Tier != AllTiers[i] {
			return errors.ErrConfiguration(fmt.Sprintf("threshold %d is %q, want %q", i, th.Tier, AllTiers[i]))
		}
		if i == 0 {
			if th.MinScore != 0 {
				return errors.ErrConfiguration(fmt.Sprintf("lowest tier must open at 0, got %d", th.MinScore))
			}
			continue
		}
		if th.MinScore <= t.Thresholds[i-1].MinScore {
			return errors.ErrConfiguration(fmt.Sprintf("threshold for %s (%d) must exceed %s (%d)",
				th.Tier, th.MinScore, t.Thresholds[i-1].Tier, t.Thresholds[i-1].MinScore))
		}
	}
	return nil
}

func (t *ScoringTables) validateRecommendations() error {
	byTier := make(map[RiskTier][]string, len(t.Recommendations))
	for _, r := range t.Recommendations {
		if !r.Tier.Valid() {
			return errors.ErrConfiguration(fmt.Sprintf("recommendations for unknown tier %q", r.Tier))
		}
		if _, dup := byTier[r.Tier]; dup {
			return errors.ErrConfiguration(fmt.Sprintf("duplicate recommendations for tier %s", r.Tier))
		}
		byTier[r.Tier] = r.Items
	}
	for _, tier := range AllTiers[1:] {
		if len(byTier[tier]) == 0 {
			return errors.ErrConfiguration(fmt.Sprintf("tier %s must have at least one recommendation", tier))
		}
	}
	return nil
}
