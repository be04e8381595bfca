package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/diabrisk/internal/domain/models"
)

func TestRiskTier_Severity(t *testing.T) {
	for i, tier := range models.AllTiers {
		assert.Equal(t, i, tier.Severity())
		assert.True(t, tier.Valid())
	}
	assert.Equal(t, -1, models.RiskTier("low").Severity())
}

func TestParseRiskTier(t *testing.T) {
	tier, err := models.ParseRiskTier("ELEVATED")
	assert.NoError(t, err)
	assert.Equal(t, models.TierElevated, tier)

	_, err = models.ParseRiskTier("SEVERE")
	assert.Error(t, err)
}

func TestAggregateStats(t *testing.T) {
	var s models.AggregateStats
	assert.Equal(t, 0.0, s.Average())

	s = s.Add(8).Add(12).Add(13)
	assert.Equal(t, int64(3), s.TotalAssessments)
	assert.Equal(t, int64(33), s.SumOfScores)
	assert.InDelta(t, 11.0, s.Average(), 1e-9)
}

func TestScoreBreakdown_Total(t *testing.T) {
	b := models.ScoreBreakdown{
		Questions: []models.Contribution{{Question: 1, Points: 3}, {Question: 2, Points: 2}},
		BMIPoints: 5,
	}
	assert.Equal(t, 10, b.Total())
}

func TestRoundOneDecimal(t *testing.T) {
	assert.Equal(t, 24.2, models.RoundOneDecimal(24.221))
	assert.Equal(t, 24.3, models.RoundOneDecimal(24.25))
	assert.Equal(t, 0.0, models.RoundOneDecimal(0))
}

func TestAnthropometrics_Plausibility(t *testing.T) {
	assert.False(t, models.Anthropometrics{HeightCm: 170, WeightKg: 70}.ImplausibleHeight())
	assert.True(t, models.Anthropometrics{HeightCm: 17, WeightKg: 70}.ImplausibleHeight())
	assert.True(t, models.Anthropometrics{HeightCm: 170, WeightKg: 700}.ImplausibleWeight())
}
