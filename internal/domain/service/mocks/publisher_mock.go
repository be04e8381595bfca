package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/diabrisk/internal/domain/models"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishAssessment(ctx context.Context, event models.AssessmentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordAssessment(tier string, result string, duration time.Duration) {
	m.Called(tier, result, duration)
}

func (m *MockMetrics) ObserveScore(score int) {
	m.Called(score)
}

func (m *MockMetrics) RecordPersistence(backend string, duration time.Duration, err error) {
	m.Called(backend, duration, err)
}

func (m *MockMetrics) RecordCorruptRecord(backend string) {
	m.Called(backend)
}

func (m *MockMetrics) RecordConfigReload(success bool) {
	m.Called(success)
}
