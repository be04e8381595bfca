// Package textcodec renders and parses the line formats of the statistics file and the history log.
package textcodec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/pkg/constants"
	"github.com/turtacn/diabrisk/pkg/errors"
)

// FormatStats renders the statistics file body: "<total> <sum>".
func FormatStats(s models.AggregateStats) string {
	return fmt.Sprintf("%d %d\n", s.TotalAssessments, s.SumOfScores)
}

// ParseStats parses the statistics file body. Empty input is the zero aggregate.
func ParseStats(body string) (models.AggregateStats, error) {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return models.AggregateStats{}, nil
	}
	if len(fields) != 2 {
		return models.AggregateStats{}, errors.ErrCorruptRecord(fmt.Sprintf("statistics: expected 2 fields, got %d", len(fields)))
	}
	total, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || total < 0 {
		return models.AggregateStats{}, errors.ErrCorruptRecord(fmt.Sprintf("statistics: bad total %q", fields[0]))
	}
	sum, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return models.AggregateStats{}, errors.ErrCorruptRecord(fmt.Sprintf("statistics: bad sum %q", fields[1]))
	}
	return models.AggregateStats{TotalAssessments: total, SumOfScores: sum}, nil
}

// FormatHistoryLine renders one history record without the trailing newline:
// "YYYY-MM-DD HH:MM:SS | Score: N | BMI: x.x | Risk: TIER".
func FormatHistoryLine(r models.AssessmentRecord) string {
	return strings.Join([]string{
		r.Timestamp.Format(constants.HistoryTimestampLayout),
		"Score: " + strconv.Itoa(r.Score),
		"BMI: " + strconv.FormatFloat(models.RoundOneDecimal(r.BMI), 'f', 1, 64),
		"Risk: " + string(r.Tier),
	}, constants.HistoryFieldSeparator)
}

// ParseHistoryLine parses one history line in the local time zone.
// Lines without exactly four fields, or with an unparseable field, are corrupt.
func ParseHistoryLine(line string) (models.AssessmentRecord, error) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, constants.HistoryFieldSeparator)
	if len(parts) != 4 {
		return models.AssessmentRecord{}, errors.ErrCorruptRecord(fmt.Sprintf("history: expected 4 fields, got %d", len(parts)))
	}

	ts, err := time.ParseInLocation(constants.HistoryTimestampLayout, parts[0], time.Local)
	if err != nil {
		return models.AssessmentRecord{}, errors.ErrCorruptRecord("history: bad timestamp").WithCause(err)
	}

	scoreText, ok := strings.CutPrefix(parts[1], "Score: ")
	if !ok {
		return models.AssessmentRecord{}, errors.ErrCorruptRecord("history: missing score")
	}
	score, err := strconv.Atoi(scoreText)
	if err != nil {
		return models.AssessmentRecord{}, errors.ErrCorruptRecord("history: bad score").WithCause(err)
	}

	bmiText, ok := strings.CutPrefix(parts[2], "BMI: ")
	if !ok {
		return models.AssessmentRecord{}, errors.ErrCorruptRecord("history: missing bmi")
	}
	bmi, err := strconv.ParseFloat(bmiText, 64)
	if err != nil {
		return models.AssessmentRecord{}, errors.ErrCorruptRecord("history: bad bmi").WithCause(err)
	}

	tierText, ok := strings.CutPrefix(parts[3], "Risk: ")
	if !ok {
		return models.AssessmentRecord{}, errors.ErrCorruptRecord("history: missing risk")
	}
	tier, err := models.ParseRiskTier(tierText)
	if err != nil {
		return models.AssessmentRecord{}, errors.ErrCorruptRecord("history: bad risk").WithCause(err)
	}

	return models.AssessmentRecord{Timestamp: ts, Score: score, BMI: bmi, Tier: tier}, nil
}
