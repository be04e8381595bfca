package reporttext

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/diabrisk/internal/application/dto"
	"github.com/turtacn/diabrisk/internal/domain/models"
)

var (
	bmiLine    = regexp.MustCompile(`BMI:\s*([\d.]+)\s*\(([^)]+)\)`)
	factorLine = regexp.MustCompile(`^Question\s+\d+\s+\(Points:\s*\d+\)$`)
)

// Scan reads a text report back into the transport shape. Unrecognised lines
// are ignored and missing values keep their zero value, so partial reports
// still yield whatever they carry.
func Scan(text string) *dto.EvaluateResponse {
	out := &dto.EvaluateResponse{
		Assessment:      "Unknown",
		RiskFactors:     []string{},
		Recommendations: []string{},
	}

	inRecommendations := false
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())

		switch {
		case strings.HasPrefix(line, LabelTotalScore):
			out.Score, _ = strconv.Atoi(valueAfter(line, LabelTotalScore))
		case strings.HasPrefix(line, LabelBMI):
			if m := bmiLine.FindStringSubmatch(line); m != nil {
				out.BMI, _ = strconv.ParseFloat(m[1], 64)
				category, _, _ := strings.Cut(m[2], ",")
				out.BMICategory = strings.TrimSpace(category)
			}
		case factorLine.MatchString(line):
			out.RiskFactors = append(out.RiskFactors, line)
		case tierLine(line) != "":
			out.Assessment = line
			out.Risk = string(tierLine(line))
			inRecommendations = false
		case line == LabelRecommendations:
			inRecommendations = true
		case inRecommendations && strings.HasPrefix(line, "-"):
			out.Recommendations = append(out.Recommendations, strings.TrimSpace(strings.TrimPrefix(line, "-")))
		case strings.HasPrefix(line, LabelAverageScore):
			out.AverageScore, _ = strconv.ParseFloat(valueAfter(line, LabelAverageScore), 64)
			inRecommendations = false
		case strings.HasPrefix(line, LabelTotalAssessments):
			out.TotalAssessments, _ = strconv.ParseInt(valueAfter(line, LabelTotalAssessments), 10, 64)
		}
	}
	return out
}

func valueAfter(line, label string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, label))
}

// tierLine returns the tier a "<TIER> Risk:" line opens with, or "".
func tierLine(line string) models.RiskTier {
	name, _, ok := strings.Cut(line, " Risk:")
	if !ok {
		return ""
	}
	tier := models.RiskTier(name)
	if !tier.Valid() {
		return ""
	}
	return tier
}
