package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/internal/domain/service"
)

func defaultClassifier() *service.RiskClassifier {
	return service.NewRiskClassifier(models.DefaultScoringTables().Thresholds)
}

func TestRiskClassifier_Boundaries(t *testing.T) {
	c := defaultClassifier()

	tests := []struct {
		score int
		tier  models.RiskTier
	}{
		{0, models.TierMinimal},
		{4, models.TierMinimal},
		{5, models.TierLow},
		{9, models.TierLow},
		{10, models.TierModerate},
		{13, models.TierModerate},
		{14, models.TierElevated},
		{17, models.TierElevated},
		{18, models.TierHigh},
		{21, models.TierHigh},
		{22, models.TierCritical},
		{40, models.TierCritical},
		{-3, models.TierMinimal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tier, c.Classify(tt.score).Tier, "score %d", tt.score)
	}
}

func TestRiskClassifier_Monotonic(t *testing.T) {
	c := defaultClassifier()
	seen := map[models.RiskTier]bool{}

	prev := -1
	for score := 0; score <= 40; score++ {
		tier := c.Classify(score).Tier
		assert.GreaterOrEqual(t, tier.Severity(), prev, "score %d", score)
		prev = tier.Severity()
		seen[tier] = true
	}
	for _, tier := range models.AllTiers {
		assert.True(t, seen[tier], "tier %s never assigned", tier)
	}
}

func TestRiskClassifier_HeadlineFollowsTier(t *testing.T) {
	c := defaultClassifier()
	th := c.Classify(12)
	assert.Equal(t, models.TierModerate, th.Tier)
	assert.NotEmpty(t, th.Headline)
}

func TestRiskClassifier_ThresholdsAreCopied(t *testing.T) {
	c := defaultClassifier()
	th := c.Thresholds()
	th[1].MinScore = 100

	assert.Equal(t, models.TierLow, c.Classify(5).Tier)
}
