package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/diabrisk/internal/domain/models"
)

type MockAssessmentLedger struct {
	mock.Mock
}

func (m *MockAssessmentLedger) Commit(ctx context.Context, record models.AssessmentRecord) (models.AggregateStats, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(models.AggregateStats), args.Error(1)
}

func (m *MockAssessmentLedger) Stats(ctx context.Context) (models.AggregateStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.AggregateStats), args.Error(1)
}

func (m *MockAssessmentLedger) History(ctx context.Context, limit int) ([]models.AssessmentRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AssessmentRecord), args.Error(1)
}

func (m *MockAssessmentLedger) Backend() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockAssessmentLedger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAssessmentLedger) Close() error {
	args := m.Called()
	return args.Error(0)
}
