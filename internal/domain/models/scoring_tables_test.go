package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/pkg/constants"
	"github.com/turtacn/diabrisk/pkg/errors"
)

func TestDefaultScoringTables_Valid(t *testing.T) {
	tables := models.DefaultScoringTables()
	require.NoError(t, tables.Validate())
	assert.Len(t, tables.Questions, constants.QuestionCount)
}

func TestDefaultScoringTables_FreshCopy(t *testing.T) {
	a := models.DefaultScoringTables()
	a.Questions[0].Options[0].Points = 99
	a.Thresholds[1].MinScore = 7

	b := models.DefaultScoringTables()
	assert.Equal(t, 0, b.Questions[0].Options[0].Points)
	assert.Equal(t, 5, b.Thresholds[1].MinScore)
}

func TestScoringTables_ValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.ScoringTables)
	}{
		{"missing question", func(s *models.ScoringTables) { s.Questions = s.Questions[:9] }},
		{"question out of order", func(s *models.ScoringTables) {
			s.Questions[0], s.Questions[1] = s.Questions[1], s.Questions[0]
		}},
		{"question without options", func(s *models.ScoringTables) { s.Questions[4].Options = nil }},
		{"duplicate option", func(s *models.ScoringTables) {
			s.Questions[2].Options[1].Value = s.Questions[2].Options[0].Value
		}},
		{"negative points", func(s *models.ScoringTables) { s.Questions[3].Options[0].Points = -1 }},
		{"missing tier", func(s *models.ScoringTables) { s.Thresholds = s.Thresholds[:5] }},
		{"tier order", func(s *models.ScoringTables) {
			s.Thresholds[2].Tier, s.Thresholds[3].Tier = s.Thresholds[3].Tier, s.Thresholds[2].Tier
		}},
		{"gap at zero", func(s *models.ScoringTables) { s.Thresholds[0].MinScore = 1 }},
		{"overlapping cutoffs", func(s *models.ScoringTables) { s.Thresholds[4].MinScore = s.Thresholds[3].MinScore }},
		{"descending cutoffs", func(s *models.ScoringTables) { s.Thresholds[5].MinScore = 3 }},
		{"recommendations unknown tier", func(s *models.ScoringTables) {
			s.Recommendations = append(s.Recommendations, models.TierRecommendations{Tier: "SEVERE", Items: []string{"x"}})
		}},
		{"recommendations duplicate tier", func(s *models.ScoringTables) {
			s.Recommendations = append(s.Recommendations, s.Recommendations[2])
		}},
		{"tier without recommendations", func(s *models.ScoringTables) { s.Recommendations[5].Items = nil }},
		{"factor advice out of range", func(s *models.ScoringTables) {
			s.FactorAdvice = []models.FactorAdvice{{Question: 11, Advice: "x"}}
		}},
		{"empty factor advice", func(s *models.ScoringTables) {
			s.FactorAdvice = []models.FactorAdvice{{Question: 3}}
		}},
		{"negative bmi points", func(s *models.ScoringTables) { s.BMIPoints.Obese = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := models.DefaultScoringTables()
			tt.mutate(&tables)
			err := tables.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsConfigurationError(err))
		})
	}
}

func TestScoringTables_MinimalTierMayHaveNoRecommendations(t *testing.T) {
	tables := models.DefaultScoringTables()
	tables.Recommendations = tables.Recommendations[1:]
	assert.NoError(t, tables.Validate())
}

func TestBMIPoints_For(t *testing.T) {
	p := models.BMIPoints{Underweight: 1, Normal: 0, Overweight: 2, Obese: 5}
	assert.Equal(t, 1, p.For(constants.BMIUnderweight))
	assert.Equal(t, 2, p.For(constants.BMIOverweight))
	assert.Equal(t, 5, p.For(constants.BMIObese))
	assert.Equal(t, 0, p.For(constants.BMIUnknown))
}
