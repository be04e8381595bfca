// Package reporttext renders assessment reports as the line-oriented text
// report and reads the matching text input and report formats.
package reporttext

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/turtacn/diabrisk/internal/application/dto"
	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/pkg/constants"
)

// Label prefixes of the text report.
const (
	LabelTotalScore       = "Total Risk Score:"
	LabelBMI              = "BMI:"
	LabelRecommendations  = "RECOMMENDATIONS:"
	LabelAverageScore     = "Average Score:"
	LabelTotalAssessments = "Total Assessments:"

	headerAssessment = "===== DIABETES RISK ASSESSMENT ====="
	headerStatistics = "===== STATISTICAL COMPARISON ====="
	headerFactors    = "Top Risk Factors:"
	headerVerdict    = "Final Assessment:"
)

// Format writes the text report. maxFactors limits the risk factor lines; 0 prints all.
func Format(w io.Writer, r *models.AssessmentReport, maxFactors int) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "\n%s\n", headerAssessment)
	fmt.Fprintf(bw, "%s %d\n", LabelTotalScore, r.Score)
	if r.BMI.Value > 0 {
		fmt.Fprintf(bw, "%s %s\n", LabelBMI, bmiDetail(r))
	}
	if r.ImplausibleHeight {
		fmt.Fprintf(bw, "Note: height is outside the expected range (%.0f-%.0f cm)\n",
			constants.MinPlausibleHeightCm, constants.MaxPlausibleHeightCm)
	}
	if r.ImplausibleWeight {
		fmt.Fprintf(bw, "Note: weight is outside the expected range (%.0f-%.0f kg)\n",
			constants.MinPlausibleWeightKg, constants.MaxPlausibleWeightKg)
	}

	fmt.Fprintf(bw, "\n%s\n", headerFactors)
	factors := r.RiskFactors
	if maxFactors > 0 && len(factors) > maxFactors {
		factors = factors[:maxFactors]
	}
	for _, f := range factors {
		fmt.Fprintln(bw, dto.RiskFactorLine(f))
	}

	fmt.Fprintf(bw, "\n%s\n", headerVerdict)
	fmt.Fprintln(bw, dto.AssessmentLine(r.Tier, r.TierHeadline))
	fmt.Fprintf(bw, "\n%s\n", LabelRecommendations)
	for _, rec := range r.Recommendations {
		fmt.Fprintf(bw, "- %s\n", rec)
	}

	fmt.Fprintf(bw, "\n%s\n", headerStatistics)
	fmt.Fprintf(bw, "%s %.1f\n", LabelAverageScore, models.RoundOneDecimal(r.AverageScore()))
	fmt.Fprintf(bw, "%s %d\n", LabelTotalAssessments, r.Stats.TotalAssessments)

	return bw.Flush()
}

// FormatString is Format into a string.
func FormatString(r *models.AssessmentReport, maxFactors int) string {
	var sb strings.Builder
	_ = Format(&sb, r, maxFactors)
	return sb.String()
}

func bmiDetail(r *models.AssessmentReport) string {
	value := fmt.Sprintf("%.1f", r.BMI.Rounded())
	if r.Breakdown.BMIPoints > 0 {
		return fmt.Sprintf("%s (%s, +%d points)", value, r.BMI.Category, r.Breakdown.BMIPoints)
	}
	return fmt.Sprintf("%s (%s)", value, r.BMI.Category)
}
