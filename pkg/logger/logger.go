// Package logger provides the structured logging contract used across the risk assessment service.
// Implementations live in infrastructure (zap); this package only depends on the standard library
// and OpenTelemetry for trace correlation.
package logger

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/turtacn/diabrisk/pkg/constants"
)

// ================================================================================
// Logger Interface
// ================================================================================

// Logger defines the interface for structured logging
type Logger interface {
	// Debug logs a debug message
	Debug(ctx context.Context, message string, fields ...Fields)

	// Info logs an informational message
	Info(ctx context.Context, message string, fields ...Fields)

	// Warn logs a warning message
	Warn(ctx context.Context, message string, fields ...Fields)

	// Error logs an error message
	Error(ctx context.Context, message string, err error, fields ...Fields)

	// Fatal logs a fatal message and exits the application
	Fatal(ctx context.Context, message string, err error, fields ...Fields)

	// WithFields creates a new logger with additional fields
	WithFields(fields Fields) Logger

	// WithComponent creates a new logger for a specific component
	WithComponent(component string) Logger
}

// ================================================================================
// Fields
// ================================================================================

// Fields is a set of key-value pairs attached to a log entry
type Fields map[string]interface{}

// String creates a string field
func String(key string, value string) Fields {
	return Fields{key: value}
}

// Int creates an integer field
func Int(key string, value int) Fields {
	return Fields{key: value}
}

// Int64 creates an int64 field
func Int64(key string, value int64) Fields {
	return Fields{key: value}
}

// Float64 creates a float64 field
func Float64(key string, value float64) Fields {
	return Fields{key: value}
}

// Bool creates a boolean field
func Bool(key string, value bool) Fields {
	return Fields{key: value}
}

// Duration creates a duration field
func Duration(key string, value time.Duration) Fields {
	return Fields{key: value.String()}
}

// Any creates a field with any type
func Any(key string, value interface{}) Fields {
	return Fields{key: value}
}

// Err creates an error field
func Err(err error) Fields {
	if err == nil {
		return Fields{"error": nil}
	}
	return Fields{"error": err.Error()}
}

// Merge flattens fields into a single map; later keys win.
func Merge(fields ...Fields) Fields {
	out := make(Fields)
	for _, f := range fields {
		for k, v := range f {
			out[k] = v
		}
	}
	return out
}

// ContextFields extracts correlation identifiers carried by ctx.
func ContextFields(ctx context.Context) Fields {
	out := make(Fields)
	if ctx == nil {
		return out
	}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		out["trace_id"] = span.SpanContext().TraceID().String()
		out["span_id"] = span.SpanContext().SpanID().String()
	} else if traceID, ok := ctx.Value(constants.ContextKeyTraceID).(string); ok && traceID != "" {
		out["trace_id"] = traceID
	}

	if requestID, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok && requestID != "" {
		out["request_id"] = requestID
	}
	if assessmentID, ok := ctx.Value(constants.ContextKeyAssessmentID).(string); ok && assessmentID != "" {
		out["assessment_id"] = assessmentID
	}
	return out
}

// ================================================================================
// Performance Logging
// ================================================================================

// PerformanceLogger tracks operation performance
type PerformanceLogger struct {
	logger    Logger
	threshold time.Duration
}

// NewPerformanceLogger creates a new performance logger that warns above threshold
func NewPerformanceLogger(logger Logger, threshold time.Duration) *PerformanceLogger {
	return &PerformanceLogger{
		logger:    logger.WithComponent("performance"),
		threshold: threshold,
	}
}

// StartOperation creates a function to track operation duration
func (p *PerformanceLogger) StartOperation(ctx context.Context, operation string) func(...Fields) {
	start := time.Now()

	return func(fields ...Fields) {
		duration := time.Since(start)
		perf := Merge(append([]Fields{{
			"operation":   operation,
			"duration":    duration.String(),
			"duration_ms": duration.Milliseconds(),
		}}, fields...)...)

		if duration > p.threshold {
			p.logger.Warn(ctx, "Slow operation detected", perf)
		} else {
			p.logger.Debug(ctx, "Operation completed", perf)
		}
	}
}
