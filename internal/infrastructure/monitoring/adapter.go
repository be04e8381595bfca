// Package monitoring provides adapters to connect the domain's metrics interface with a concrete implementation like Prometheus.
package monitoring

import (
	"time"

	"github.com/turtacn/diabrisk/internal/domain/service"
)

// MetricsAdapter implements the domain's service.Metrics interface, sending metrics to a Prometheus backend.
// MetricsAdapter 实现了域的 service.Metrics 接口，将指标发送到 Prometheus 后端。
type MetricsAdapter struct {
	metrics *Metrics
}

// NewMetricsAdapter wraps a concrete Prometheus Metrics object, satisfying the domain's Metrics interface.
// NewMetricsAdapter 包装具体的 Prometheus Metrics 对象，满足域的 Metrics 接口。
func NewMetricsAdapter(metrics *Metrics) service.Metrics {
	return &MetricsAdapter{metrics: metrics}
}

// RecordAssessment delegates the call to the underlying Prometheus Metrics object.
// RecordAssessment 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordAssessment(tier string, result string, duration time.Duration) {
	a.metrics.RecordAssessment(tier, result, duration)
}

// ObserveScore records a total score in the distribution histogram.
// ObserveScore 将总分记录到分布直方图中。
func (a *MetricsAdapter) ObserveScore(score int) {
	a.metrics.ScoreDistribution.Observe(float64(score))
}

// RecordPersistence delegates the call to the underlying Prometheus Metrics object.
// RecordPersistence 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordPersistence(backend string, duration time.Duration, err error) {
	a.metrics.RecordCommit(backend, duration, err != nil)
}

// RecordCorruptRecord counts a skipped entry.
// RecordCorruptRecord 统计一条被跳过的记录。
func (a *MetricsAdapter) RecordCorruptRecord(backend string) {
	a.metrics.CorruptRecords.WithLabelValues(backend).Inc()
}

// RecordConfigReload counts a reload attempt by outcome.
// RecordConfigReload 按结果统计一次重新加载尝试。
func (a *MetricsAdapter) RecordConfigReload(success bool) {
	result := "rejected"
	if success {
		result = "applied"
	}
	a.metrics.ConfigReloads.WithLabelValues(result).Inc()
}
