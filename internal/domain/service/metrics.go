// Package service defines the pure assessment services and the interfaces they depend on.
package service

import (
	"time"
)

// Metrics defines the interface for collecting business metrics.
// This abstraction allows the application layer to remain independent of the specific monitoring implementation (e.g., Prometheus).
// Metrics 定义了收集业务指标的接口。
// 这种抽象使应用层能够独立于具体的监控实现（例如 Prometheus）。
type Metrics interface {
	// RecordAssessment records the outcome and latency of one assessment.
	// RecordAssessment 记录一次评估的结果和延迟。
	RecordAssessment(tier string, result string, duration time.Duration)

	// ObserveScore records the distribution of total scores.
	// ObserveScore 记录总分的分布。
	ObserveScore(score int)

	// RecordPersistence records the latency and error status of a ledger commit.
	// RecordPersistence 记录账本提交的延迟和错误状态。
	RecordPersistence(backend string, duration time.Duration, err error)

	// RecordCorruptRecord counts history or statistics entries skipped while reading.
	// RecordCorruptRecord 统计读取时跳过的历史或统计条目。
	RecordCorruptRecord(backend string)

	// RecordConfigReload records a scoring table reload attempt.
	// RecordConfigReload 记录一次评分表重新加载尝试。
	RecordConfigReload(success bool)
}

type noopMetrics struct{}

// NewNoopMetrics returns a Metrics implementation that records nothing.
func NewNoopMetrics() Metrics {
	return noopMetrics{}
}

func (noopMetrics) RecordAssessment(tier string, result string, duration time.Duration) {}
func (noopMetrics) ObserveScore(score int)                                              {}
func (noopMetrics) RecordPersistence(backend string, duration time.Duration, err error) {}
func (noopMetrics) RecordCorruptRecord(backend string)                                  {}
func (noopMetrics) RecordConfigReload(success bool)                                     {}
