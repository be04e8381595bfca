package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/internal/domain/service"
)

func TestRecommendationGenerator_TierOnly(t *testing.T) {
	tables := models.DefaultScoringTables()
	g := service.NewRecommendationGenerator(tables.Recommendations, nil)

	for _, r := range tables.Recommendations {
		assert.Equal(t, r.Items, g.Generate(r.Tier, nil), string(r.Tier))
	}
	assert.Empty(t, g.Generate(models.RiskTier("UNKNOWN"), nil))
}

func TestRecommendationGenerator_FactorAdvice(t *testing.T) {
	recs := []models.TierRecommendations{{Tier: models.TierLow, Items: []string{"keep moving"}}}
	advice := []models.FactorAdvice{
		{Question: 3, Advice: "tell your doctor about family history"},
		{Question: 5, Advice: "add daily activity"},
		{Question: 9, Advice: "recheck fasting glucose"},
	}
	g := service.NewRecommendationGenerator(recs, advice)

	breakdown := &models.ScoreBreakdown{Questions: []models.Contribution{
		{Question: 1, Value: 2, Points: 1},
		{Question: 3, Value: 1, Points: 3},
		{Question: 5, Value: 2, Points: 2},
		{Question: 9, Value: 2, Points: 2},
		{Question: 10, Value: 2, Points: 0},
	}}

	got := g.Generate(models.TierLow, breakdown)
	assert.Equal(t, []string{
		"keep moving",
		"tell your doctor about family history",
		"add daily activity",
		"recheck fasting glucose",
	}, got)
}

func TestRecommendationGenerator_DoesNotAliasTable(t *testing.T) {
	recs := []models.TierRecommendations{{Tier: models.TierHigh, Items: []string{"a", "b"}}}
	g := service.NewRecommendationGenerator(recs, nil)

	recs[0].Items[0] = "changed"
	out := g.Generate(models.TierHigh, nil)
	out[1] = "mutated"

	assert.Equal(t, []string{"a", "b"}, g.Generate(models.TierHigh, nil))
}

func TestRankRiskFactors(t *testing.T) {
	b := models.ScoreBreakdown{
		Questions: []models.Contribution{
			{Question: 1, Value: 1, Points: 0},
			{Question: 2, Value: 1, Points: 2},
			{Question: 3, Value: 1, Points: 3},
			{Question: 4, Value: 1, Points: 2},
			{Question: 8, Value: 3, Points: 1},
		},
		BMIPoints: 5,
	}

	ranked := service.RankRiskFactors(b)
	require.Len(t, ranked, 4)
	questions := make([]int, len(ranked))
	for i, c := range ranked {
		questions[i] = c.Question
	}
	assert.Equal(t, []int{3, 2, 4, 8}, questions)
}

func TestRankRiskFactors_NoneContributing(t *testing.T) {
	b := models.ScoreBreakdown{Questions: []models.Contribution{{Question: 1, Value: 1, Points: 0}}}
	assert.Empty(t, service.RankRiskFactors(b))
}
