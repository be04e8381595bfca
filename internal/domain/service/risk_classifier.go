package service

import (
	"sort"

	"github.com/turtacn/diabrisk/internal/domain/models"
)

// RiskClassifier partitions the score axis into six contiguous ascending bands.
type RiskClassifier struct {
	thresholds []models.TierThreshold
}

// NewRiskClassifier copies a validated threshold table.
func NewRiskClassifier(thresholds []models.TierThreshold) *RiskClassifier {
	th := make([]models.TierThreshold, len(thresholds))
	copy(th, thresholds)
	return &RiskClassifier{thresholds: th}
}

// Classify returns the highest band whose cutoff the score meets.
// A score exactly on a cutoff belongs to the tier that cutoff opens;
// scores below the first cutoff fall into the lowest tier.
func (c *RiskClassifier) Classify(score int) models.TierThreshold {
	// first band whose cutoff exceeds the score; the one before it holds the score
	i := sort.Search(len(c.thresholds), func(i int) bool {
		return c.thresholds[i].MinScore > score
	})
	if i == 0 {
		return c.thresholds[0]
	}
	return c.thresholds[i-1]
}

// Thresholds returns a copy of the configured bands in ascending order.
func (c *RiskClassifier) Thresholds() []models.TierThreshold {
	out := make([]models.TierThreshold, len(c.thresholds))
	copy(out, c.thresholds)
	return out
}
