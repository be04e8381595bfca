package service

import (
	"github.com/turtacn/diabrisk/internal/domain/models"
)

// RuleSet bundles the scoring engine, classifier and recommendation generator
// built from one validated set of tables. A RuleSet is immutable; reloading the
// tables produces a new RuleSet.
type RuleSet struct {
	Tables      models.ScoringTables
	Engine      *ScoringEngine
	Classifier  *RiskClassifier
	Recommender *RecommendationGenerator
}

// NewRuleSet validates tables and builds the pure assessment services from them.
// An invalid table yields a configuration error.
func NewRuleSet(tables models.ScoringTables) (*RuleSet, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return &RuleSet{
		Tables:      tables,
		Engine:      NewScoringEngine(tables),
		Classifier:  NewRiskClassifier(tables.Thresholds),
		Recommender: NewRecommendationGenerator(tables.Recommendations, tables.FactorAdvice),
	}, nil
}

// MustDefaultRuleSet builds the stock rule set. The stock tables are valid by construction.
func MustDefaultRuleSet() *RuleSet {
	rs, err := NewRuleSet(models.DefaultScoringTables())
	if err != nil {
		panic(err)
	}
	return rs
}
