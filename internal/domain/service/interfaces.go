package service

import (
	"context"

	"github.com/turtacn/diabrisk/internal/domain/models"
)

//go:generate mockery --name EventPublisher --output mocks --outpkg mocks --structname MockEventPublisher

// EventPublisher announces completed assessments to downstream consumers (analytics, dashboards).
// Publishing happens after the assessment is persisted and never fails the assessment.
// EventPublisher 将已完成的评估通知下游消费者（分析、仪表盘）。
// 发布发生在评估持久化之后，且永远不会导致评估失败。
type EventPublisher interface {
	// PublishAssessment sends one completed assessment event.
	// PublishAssessment 发送一个已完成的评估事件。
	PublishAssessment(ctx context.Context, event models.AssessmentEvent) error

	// Close flushes pending events and releases the underlying writer.
	// Close 刷新待发送事件并释放底层写入器。
	Close() error
}

type noopPublisher struct{}

// NewNoopEventPublisher returns a publisher that discards every event.
func NewNoopEventPublisher() EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) PublishAssessment(ctx context.Context, event models.AssessmentEvent) error {
	return nil
}

func (noopPublisher) Close() error {
	return nil
}
