// Package constants defines system-wide constants for the diabetes risk assessment service.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Questionnaire Constants
// ================================================================================

const (
	// QuestionCount is the fixed number of questionnaire answers per assessment.
	QuestionCount = 10

	// MinPlausibleHeightCm is the lower bound of the expected height range.
	MinPlausibleHeightCm = 100.0

	// MaxPlausibleHeightCm is the upper bound of the expected height range.
	MaxPlausibleHeightCm = 250.0

	// MinPlausibleWeightKg is the lower bound of the expected weight range.
	MinPlausibleWeightKg = 30.0

	// MaxPlausibleWeightKg is the upper bound of the expected weight range.
	MaxPlausibleWeightKg = 300.0

	// DefaultMaxRiskFactors is how many risk factors the text report prints.
	DefaultMaxRiskFactors = 3
)

// ================================================================================
// BMI Category Constants
// ================================================================================

// BMICategory is the weight classification derived from BMI
type BMICategory string

const (
	BMIUnknown     BMICategory = "Unknown"
	BMIUnderweight BMICategory = "Underweight"
	BMINormal      BMICategory = "Normal"
	BMIOverweight  BMICategory = "Overweight"
	BMIObese       BMICategory = "Obese"
)

const (
	// BMIUnderweightLimit is the exclusive upper bound of the Underweight band.
	BMIUnderweightLimit = 18.5

	// BMINormalLimit is the exclusive upper bound of the Normal band.
	BMINormalLimit = 25.0

	// BMIOverweightLimit is the exclusive upper bound of the Overweight band.
	BMIOverweightLimit = 30.0
)

// ================================================================================
// Storage Constants
// ================================================================================

// StorageDriver selects the persistence backend for statistics and history
type StorageDriver string

const (
	StorageDriverFile     StorageDriver = "file"
	StorageDriverSQLite   StorageDriver = "sqlite"
	StorageDriverPostgres StorageDriver = "postgres"
	StorageDriverRedis    StorageDriver = "redis"
)

const (
	// DefaultStatsFile is the default path of the statistics file.
	DefaultStatsFile = "stats.txt"

	// DefaultHistoryFile is the default path of the history log.
	DefaultHistoryFile = "history.txt"

	// HistoryTimestampLayout is the timestamp layout of history log lines.
	HistoryTimestampLayout = "2006-01-02 15:04:05"

	// HistoryFieldSeparator separates the fields of a history log line.
	HistoryFieldSeparator = " | "

	// DefaultHistoryLimit caps history reads served over the API.
	DefaultHistoryLimit = 100

	// RedisKeyPrefix namespaces all keys written by the Redis backend.
	RedisKeyPrefix = "diabrisk"
)

// ================================================================================
// Log Level Constants
// ================================================================================

// LogLevel represents the severity level of log messages
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey is the type for keys stored in a context.Context
type ContextKey string

const (
	// ContextKeyRequestID carries the per-request identifier.
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyTraceID carries the trace identifier set by the tracing middleware.
	ContextKeyTraceID ContextKey = "trace_id"

	// ContextKeyAssessmentID carries the identifier of the assessment being processed.
	ContextKeyAssessmentID ContextKey = "assessment_id"
)

// ================================================================================
// HTTP Constants
// ================================================================================

const (
	// HeaderRequestID is the request correlation header.
	HeaderRequestID = "X-Request-ID"

	// HeaderIdempotencyKey lets clients retry an assessment without double counting.
	HeaderIdempotencyKey = "Idempotency-Key"

	// HeaderIdempotentReplay marks a response served from the idempotency cache.
	HeaderIdempotentReplay = "Idempotent-Replayed"

	// DefaultIdempotencyTTL is how long a submitted report can be replayed.
	DefaultIdempotencyTTL = 10 * time.Minute

	// DefaultSlowCommitThreshold is the ledger commit duration logged as slow.
	DefaultSlowCommitThreshold = 250 * time.Millisecond

	// DefaultShutdownTimeout bounds graceful HTTP shutdown.
	DefaultShutdownTimeout = 30 * time.Second
)

// ================================================================================
// Observability Constants
// ================================================================================

const (
	// ServiceName is used for tracing resources and tracer names.
	ServiceName = "diabrisk"

	// MetricsNamespace prefixes every Prometheus metric.
	MetricsNamespace = "diabrisk"
)
