package service

import (
	"sort"

	"github.com/turtacn/diabrisk/internal/domain/models"
)

// RecommendationGenerator maps a tier, and optionally the breakdown, to advisory strings.
type RecommendationGenerator struct {
	byTier       map[models.RiskTier][]string
	factorAdvice map[int]string
}

// NewRecommendationGenerator indexes the recommendation and factor advice tables.
func NewRecommendationGenerator(recs []models.TierRecommendations, advice []models.FactorAdvice) *RecommendationGenerator {
	g := &RecommendationGenerator{
		byTier:       make(map[models.RiskTier][]string, len(recs)),
		factorAdvice: make(map[int]string, len(advice)),
	}
	for _, r := range recs {
		items := make([]string, len(r.Items))
		copy(items, r.Items)
		g.byTier[r.Tier] = items
	}
	for _, a := range advice {
		g.factorAdvice[a.Question] = a.Advice
	}
	return g
}

// Generate returns the tier's list in table order, followed by advice for the
// contributing questions that have an entry, highest contribution first.
func (g *RecommendationGenerator) Generate(tier models.RiskTier, breakdown *models.ScoreBreakdown) []string {
	items := g.byTier[tier]
	out := make([]string, 0, len(items))
	out = append(out, items...)

	if breakdown == nil || len(g.factorAdvice) == 0 {
		return out
	}
	for _, f := range RankRiskFactors(*breakdown) {
		if advice, ok := g.factorAdvice[f.Question]; ok {
			out = append(out, advice)
		}
	}
	return out
}

// RankRiskFactors returns the contributing answers (points > 0), highest first.
// Ties keep question order.
func RankRiskFactors(b models.ScoreBreakdown) []models.Contribution {
	factors := make([]models.Contribution, 0, len(b.Questions))
	for _, c := range b.Questions {
		if c.Points > 0 {
			factors = append(factors, c)
		}
	}
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Points > factors[j].Points
	})
	return factors
}
