package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/internal/domain/service"
	"github.com/turtacn/diabrisk/pkg/errors"
)

func TestNewRuleSet_Default(t *testing.T) {
	rs := service.MustDefaultRuleSet()
	assert.Equal(t, 10, rs.Engine.QuestionCount())
	assert.Len(t, rs.Classifier.Thresholds(), len(models.AllTiers))
}

func TestNewRuleSet_RejectsInvalidTables(t *testing.T) {
	tables := models.DefaultScoringTables()
	tables.Thresholds[3].MinScore = tables.Thresholds[2].MinScore

	rs, err := service.NewRuleSet(tables)
	require.Error(t, err)
	assert.Nil(t, rs)
	assert.True(t, errors.IsConfigurationError(err))
}
