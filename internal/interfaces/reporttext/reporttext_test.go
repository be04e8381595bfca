package reporttext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/pkg/constants"
	"github.com/turtacn/diabrisk/pkg/errors"
)

func overweightReport() *models.AssessmentReport {
	return &models.AssessmentReport{
		Score:        12,
		BMI:          models.BMIResult{Value: 26.12, Category: constants.BMIOverweight},
		Tier:         models.TierModerate,
		TierHeadline: "Lifestyle modifications suggested.",
		RiskFactors: []models.Contribution{
			{Question: 3, Value: 1, Points: 3},
			{Question: 8, Value: 2, Points: 2},
			{Question: 2, Value: 1, Points: 2},
			{Question: 9, Value: 3, Points: 1},
		},
		Recommendations: []string{"Annual health screening including blood glucose check", "Walk daily"},
		Breakdown:       models.ScoreBreakdown{BMIPoints: 2},
		Stats:           models.AggregateStats{TotalAssessments: 4, SumOfScores: 37},
	}
}

func TestFormat(t *testing.T) {
	text := FormatString(overweightReport(), 3)

	assert.Contains(t, text, "Total Risk Score: 12\n")
	assert.Contains(t, text, "BMI: 26.1 (Overweight, +2 points)\n")
	assert.Contains(t, text, "Question 3 (Points: 3)\nQuestion 8 (Points: 2)\nQuestion 2 (Points: 2)\n")
	assert.NotContains(t, text, "Question 9")
	assert.Equal(t, 1, strings.Count(text, " Risk: "))
	assert.Contains(t, text, "MODERATE Risk: Lifestyle modifications suggested.\n")
	assert.Contains(t, text, "RECOMMENDATIONS:\n- Annual health screening including blood glucose check\n- Walk daily\n")
	assert.Contains(t, text, "Average Score: 9.3\n")
	assert.Contains(t, text, "Total Assessments: 4\n")

	assert.Contains(t, FormatString(overweightReport(), 0), "Question 9 (Points: 1)")
}

func TestFormat_BMIVariants(t *testing.T) {
	r := overweightReport()
	r.BMI = models.BMIResult{Value: 22.04, Category: constants.BMINormal}
	r.Breakdown.BMIPoints = 0
	assert.Contains(t, FormatString(r, 3), "BMI: 22.0 (Normal)\n")

	r.BMI = models.BMIResult{Category: constants.BMIUnknown}
	assert.NotContains(t, FormatString(r, 3), "BMI:")

	r.ImplausibleHeight = true
	assert.Contains(t, FormatString(r, 3), "height is outside the expected range (100-250 cm)")
}

func TestScan_RoundTrip(t *testing.T) {
	resp := Scan(FormatString(overweightReport(), 3))

	assert.Equal(t, 12, resp.Score)
	assert.Equal(t, 26.1, resp.BMI)
	assert.Equal(t, "Overweight", resp.BMICategory)
	assert.Equal(t, []string{"Question 3 (Points: 3)", "Question 8 (Points: 2)", "Question 2 (Points: 2)"}, resp.RiskFactors)
	assert.Equal(t, "MODERATE Risk: Lifestyle modifications suggested.", resp.Assessment)
	assert.Equal(t, "MODERATE", resp.Risk)
	assert.Equal(t, []string{"Annual health screening including blood glucose check", "Walk daily"}, resp.Recommendations)
	assert.Equal(t, 9.3, resp.AverageScore)
	assert.Equal(t, int64(4), resp.TotalAssessments)
}

func TestScan_Partial(t *testing.T) {
	resp := Scan("noise\nTotal Risk Score: 3\n")
	assert.Equal(t, 3, resp.Score)
	assert.Equal(t, "Unknown", resp.Assessment)
	assert.Empty(t, resp.RiskFactors)
	assert.Empty(t, resp.Recommendations)
}

func TestParseInput(t *testing.T) {
	req, err := ParseInput(strings.NewReader("170 70\n2 1 1 2 1\n2 2 3 3 2\n"))
	require.NoError(t, err)
	assert.Equal(t, models.Anthropometrics{HeightCm: 170, WeightKg: 70}, req.Body)
	assert.Equal(t, models.Answers{2, 1, 1, 2, 1, 2, 2, 3, 3, 2}, req.Answers)

	req, err = ParseInput(strings.NewReader("172.5 64.2 1 2"))
	require.NoError(t, err)
	assert.Equal(t, 172.5, req.Body.HeightCm)
	assert.Len(t, req.Answers, 2)
}

func TestParseInput_Errors(t *testing.T) {
	_, err := ParseInput(strings.NewReader("170"))
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))

	_, err = ParseInput(strings.NewReader("tall 70"))
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))

	_, err = ParseInput(strings.NewReader("170 70 1 x"))
	assert.True(t, errors.IsValidationError(err))
}
