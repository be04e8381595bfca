package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/diabrisk/internal/domain/models"
)

func record(minute, score int, tier models.RiskTier) models.AssessmentRecord {
	return models.AssessmentRecord{
		Timestamp: time.Date(2024, 5, 1, 10, minute, 0, 0, time.Local),
		Score:     score,
		BMI:       24.2,
		Tier:      tier,
	}
}

func TestHistoryLog_NewestFirst(t *testing.T) {
	h := NewHistoryLog(filepath.Join(t.TempDir(), "history.txt"), nil)
	ctx := context.Background()

	require.NoError(t, h.Append(ctx, record(1, 3, models.TierMinimal)))
	require.NoError(t, h.Append(ctx, record(2, 8, models.TierLow)))
	require.NoError(t, h.Append(ctx, record(3, 12, models.TierModerate)))

	all, err := h.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{12, 8, 3}, []int{all[0].Score, all[1].Score, all[2].Score})

	top, err := h.List(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{12, 8}, []int{top[0].Score, top[1].Score})

	// storage order is unchanged by reads
	body, err := os.ReadFile(h.Path())
	require.NoError(t, err)
	assert.Equal(t,
		"2024-05-01 10:01:00 | Score: 3 | BMI: 24.2 | Risk: MINIMAL\n"+
			"2024-05-01 10:02:00 | Score: 8 | BMI: 24.2 | Risk: LOW\n"+
			"2024-05-01 10:03:00 | Score: 12 | BMI: 24.2 | Risk: MODERATE\n",
		string(body))
}

func TestHistoryLog_SkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.txt")
	body := "2024-05-01 10:01:00 | Score: 3 | BMI: 22.0 | Risk: MINIMAL\n" +
		"this line is broken\n" +
		"\n" +
		"2024-05-01 10:02:00 | Score: 8 | BMI: 24.2\n" +
		"2024-05-01 10:03:00 | Score: 12 | BMI: 27.5 | Risk: MODERATE\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	var skipped []int
	h := NewHistoryLog(path, func(lineNo int, err error) { skipped = append(skipped, lineNo) })

	got, err := h.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 12, got[0].Score)
	assert.Equal(t, 27.5, got[0].BMI)
	assert.Equal(t, 3, got[1].Score)
	assert.Equal(t, []int{2, 4}, skipped)
}

func TestHistoryLog_OversizedLineDoesNotHideHistory(t *testing.T) {
	h := NewHistoryLog(filepath.Join(t.TempDir(), "history.txt"), nil)
	ctx := context.Background()
	require.NoError(t, h.Append(ctx, record(1, 3, models.TierMinimal)))

	f, err := os.OpenFile(h.Path(), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(strings.Repeat("x", 70*1024) + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, h.Append(ctx, record(3, 12, models.TierModerate)))

	var skipped []int
	h.onCorrupt = func(lineNo int, err error) { skipped = append(skipped, lineNo) }

	got, err := h.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []int{12, 3}, []int{got[0].Score, got[1].Score})
	assert.Equal(t, []int{2}, skipped)
}

func TestHistoryLog_MissingFile(t *testing.T) {
	h := NewHistoryLog(filepath.Join(t.TempDir(), "none.txt"), nil)
	got, err := h.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
