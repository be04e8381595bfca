// Package events publishes completed assessments to Kafka.
package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/diabrisk/internal/config"
	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/internal/domain/service"
	"github.com/turtacn/diabrisk/pkg/logger"
)

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher is a Kafka-backed implementation of service.EventPublisher.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger logger.Logger
}

// NewKafkaPublisher creates a publisher writing to cfg.Topic.
func NewKafkaPublisher(cfg config.KafkaConfig, log logger.Logger) service.EventPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           cfg.BatchTimeout,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer, cfg.Topic, log)
}

func newKafkaPublisher(w messageWriter, topic string, log logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: w,
		topic:  topic,
		logger: log.WithComponent("KafkaPublisher"),
	}
}

// PublishAssessment sends one event keyed by assessment ID so retries land on the same partition.
func (p *KafkaPublisher) PublishAssessment(ctx context.Context, event models.AssessmentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error(ctx, "failed to marshal assessment event", err)
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.AssessmentID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "risk", Value: []byte(event.Tier)},
		},
	})
	if err != nil {
		p.logger.Error(ctx, "failed to write assessment event to Kafka", err,
			logger.String("topic", p.topic),
			logger.String("assessment_id", event.AssessmentID))
	}
	return err
}

// Close flushes and closes the underlying Kafka writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
