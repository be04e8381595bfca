// Package service provides application-level services that orchestrate domain services and repositories
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/turtacn/diabrisk/internal/application/dto"
	"github.com/turtacn/diabrisk/internal/config"
	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/internal/domain/repository"
	domainService "github.com/turtacn/diabrisk/internal/domain/service"
	"github.com/turtacn/diabrisk/pkg/constants"
	"github.com/turtacn/diabrisk/pkg/errors"
	"github.com/turtacn/diabrisk/pkg/logger"
)

const publishTimeout = 5 * time.Second

// AssessmentState is a step of the assessment lifecycle.
type AssessmentState string

const (
	StateReceived   AssessmentState = "RECEIVED"
	StateValidated  AssessmentState = "VALIDATED"
	StateScored     AssessmentState = "SCORED"
	StateClassified AssessmentState = "CLASSIFIED"
	StatePersisted  AssessmentState = "PERSISTED"
	StateReported   AssessmentState = "REPORTED"
	StateFailed     AssessmentState = "FAILED"
)

// AssessmentAppService defines the interface for the assessment application service
type AssessmentAppService interface {
	// Assess runs one assessment end to end and returns the structured report.
	Assess(ctx context.Context, req models.AssessmentRequest) (*models.AssessmentReport, error)

	// Evaluate is Assess shaped for the HTTP transport.
	Evaluate(ctx context.Context, req *dto.EvaluateRequest) (*dto.EvaluateResponse, error)

	// History returns the most recent records first. limit <= 0 uses the configured cap.
	History(ctx context.Context, limit int) (*dto.HistoryResponse, error)

	// Stats returns the current population aggregate.
	Stats(ctx context.Context) (*dto.StatsResponse, error)

	// Questions returns the questionnaire catalogue of the active rule set.
	Questions() *dto.QuestionsResponse

	// ReloadRules validates tables and swaps them in; an invalid table keeps the current rules.
	ReloadRules(tables models.ScoringTables) error

	// Close waits for in-flight event publishes.
	Close() error
}

// Option customises an assessmentAppServiceImpl.
type Option func(*assessmentAppServiceImpl)

// WithTracer sets the tracer used for assessment spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *assessmentAppServiceImpl) { s.tracer = tracer }
}

// WithClock replaces time.Now for completion timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *assessmentAppServiceImpl) { s.now = now }
}

// WithSlowCommitThreshold sets the commit duration above which a warning is logged.
func WithSlowCommitThreshold(d time.Duration) Option {
	return func(s *assessmentAppServiceImpl) {
		if d > 0 {
			s.slowCommit = d
		}
	}
}

// WithIDGenerator replaces the assessment ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *assessmentAppServiceImpl) { s.newID = gen }
}

// assessmentAppServiceImpl is the concrete implementation of AssessmentAppService
type assessmentAppServiceImpl struct {
	rules     atomic.Pointer[domainService.RuleSet]
	ledger    repository.AssessmentLedger
	publisher domainService.EventPublisher
	metrics   domainService.Metrics
	report    config.ReportConfig
	tracer    trace.Tracer
	now       func() time.Time
	newID     func() string
	logger    logger.Logger

	slowCommit time.Duration
	perf       *logger.PerformanceLogger

	publishing sync.WaitGroup
}

// NewAssessmentAppService creates a new instance of AssessmentAppService
func NewAssessmentAppService(
	rules *domainService.RuleSet,
	ledger repository.AssessmentLedger,
	publisher domainService.EventPublisher,
	metrics domainService.Metrics,
	report config.ReportConfig,
	log logger.Logger,
	opts ...Option,
) AssessmentAppService {
	if publisher == nil {
		publisher = domainService.NewNoopEventPublisher()
	}
	if metrics == nil {
		metrics = domainService.NewNoopMetrics()
	}
	if report.HistoryLimit <= 0 {
		report.HistoryLimit = constants.DefaultHistoryLimit
	}

	s := &assessmentAppServiceImpl{
		ledger:    ledger,
		publisher: publisher,
		metrics:   metrics,
		report:    report,
		tracer:    otel.Tracer(constants.ServiceName),
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    log.WithComponent("AssessmentAppService"),

		slowCommit: constants.DefaultSlowCommitThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.perf = logger.NewPerformanceLogger(log, s.slowCommit)
	s.rules.Store(rules)
	return s
}

// Assess sequences validation, scoring, classification, persistence and reporting.
func (s *assessmentAppServiceImpl) Assess(ctx context.Context, req models.AssessmentRequest) (*models.AssessmentReport, error) {
	start := time.Now()
	id := s.newID()
	ctx = context.WithValue(ctx, constants.ContextKeyAssessmentID, id)

	ctx, span := s.tracer.Start(ctx, "AssessmentAppService.Assess",
		trace.WithAttributes(attribute.String("assessment.id", id)))
	defer span.End()

	// The rule set is captured once so a concurrent reload cannot mix tables within one assessment.
	rules := s.rules.Load()
	state := StateReceived
	advance := func(next AssessmentState) {
		state = next
		span.AddEvent(string(next))
	}
	fail := func(err error) (*models.AssessmentReport, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("assessment.failed_at", string(state)))
		s.metrics.RecordAssessment("", "failed", time.Since(start))

		fields := logger.Merge(logger.String("assessment_id", id), logger.String("state", string(state)))
		if errors.ShouldLogError(err) {
			s.logger.Error(ctx, "Assessment failed", err, fields)
		} else {
			s.logger.Warn(ctx, "Assessment rejected", fields, logger.Err(err))
		}
		advance(StateFailed)
		return nil, err
	}
	advance(StateReceived)

	// 1. RECEIVED -> VALIDATED
	if err := rules.Engine.Validate(req.Answers); err != nil {
		return fail(err)
	}
	advance(StateValidated)

	// 2. VALIDATED -> SCORED
	bmi := domainService.CalculateBMI(req.Body.HeightCm, req.Body.WeightKg)
	breakdown, err := rules.Engine.Score(req.Answers, bmi)
	if err != nil {
		return fail(err)
	}
	score := breakdown.Total()
	advance(StateScored)

	// 3. SCORED -> CLASSIFIED
	threshold := rules.Classifier.Classify(score)
	recommendations := rules.Recommender.Generate(threshold.Tier, &breakdown)
	advance(StateClassified)

	// 4. CLASSIFIED -> PERSISTED
	completedAt := s.now()
	record := models.AssessmentRecord{
		Timestamp: completedAt,
		Score:     score,
		BMI:       bmi.Value,
		Tier:      threshold.Tier,
	}
	// Commit returns the aggregate it produced, so nothing after this point can fail.
	commitStart := time.Now()
	done := s.perf.StartOperation(ctx, "ledger.commit")
	stats, err := s.ledger.Commit(ctx, record)
	done(logger.String("backend", s.ledger.Backend()), logger.Bool("ok", err == nil))
	s.metrics.RecordPersistence(s.ledger.Backend(), time.Since(commitStart), err)
	if err != nil {
		return fail(err)
	}
	advance(StatePersisted)

	// 5. PERSISTED -> REPORTED
	report := &models.AssessmentReport{
		ID:                id,
		CompletedAt:       completedAt,
		Score:             score,
		BMI:               bmi,
		Tier:              threshold.Tier,
		TierHeadline:      threshold.Headline,
		RiskFactors:       domainService.RankRiskFactors(breakdown),
		Recommendations:   recommendations,
		Breakdown:         breakdown,
		Stats:             stats,
		ImplausibleHeight: req.Body.ImplausibleHeight(),
		ImplausibleWeight: req.Body.ImplausibleWeight(),
	}
	advance(StateReported)

	span.SetAttributes(
		attribute.Int("assessment.score", score),
		attribute.String("assessment.tier", string(threshold.Tier)),
	)
	s.metrics.ObserveScore(score)
	s.metrics.RecordAssessment(string(threshold.Tier), "success", time.Since(start))

	if report.ImplausibleHeight || report.ImplausibleWeight {
		s.logger.Warn(ctx, "Implausible body measurements",
			logger.String("assessment_id", id),
			logger.Float64("height_cm", req.Body.HeightCm),
			logger.Float64("weight_kg", req.Body.WeightKg))
	}
	s.logger.Info(ctx, "Assessment completed",
		logger.String("assessment_id", id),
		logger.Int("score", score),
		logger.String("tier", string(threshold.Tier)),
		logger.Int64("total_assessments", stats.TotalAssessments))

	s.publish(ctx, report)
	return report, nil
}

// publish sends the completion event in the background; failures are logged only.
func (s *assessmentAppServiceImpl) publish(ctx context.Context, report *models.AssessmentReport) {
	event := models.NewAssessmentEvent(report)
	ctx = context.WithoutCancel(ctx)

	s.publishing.Add(1)
	go func() {
		defer s.publishing.Done()
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		if err := s.publisher.PublishAssessment(pubCtx, event); err != nil {
			s.logger.Warn(pubCtx, "Failed to publish assessment event",
				logger.String("assessment_id", event.AssessmentID), logger.Err(err))
		}
	}()
}

// Evaluate implements AssessmentAppService.
func (s *assessmentAppServiceImpl) Evaluate(ctx context.Context, req *dto.EvaluateRequest) (*dto.EvaluateResponse, error) {
	if req == nil {
		return nil, errors.ErrInvalidRequest("request body is required")
	}
	report, err := s.Assess(ctx, req.ToDomain())
	if err != nil {
		return nil, err
	}
	return dto.NewEvaluateResponse(report, s.report.MaxRiskFactors), nil
}

// History implements AssessmentAppService.
func (s *assessmentAppServiceImpl) History(ctx context.Context, limit int) (*dto.HistoryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AssessmentAppService.History")
	defer span.End()

	if limit <= 0 || limit > s.report.HistoryLimit {
		limit = s.report.HistoryLimit
	}
	records, err := s.ledger.History(ctx, limit)
	if err != nil {
		span.RecordError(err)
		s.logger.Error(ctx, "Failed to read history", err, logger.Int("limit", limit))
		return nil, err
	}
	return dto.NewHistoryResponse(records), nil
}

// Stats implements AssessmentAppService.
func (s *assessmentAppServiceImpl) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AssessmentAppService.Stats")
	defer span.End()

	stats, err := s.ledger.Stats(ctx)
	if err != nil {
		span.RecordError(err)
		s.logger.Error(ctx, "Failed to read statistics", err)
		return nil, err
	}
	return dto.NewStatsResponse(stats), nil
}

// Questions implements AssessmentAppService.
func (s *assessmentAppServiceImpl) Questions() *dto.QuestionsResponse {
	return dto.NewQuestionsResponse(s.rules.Load().Tables.Questions)
}

// ReloadRules implements AssessmentAppService.
func (s *assessmentAppServiceImpl) ReloadRules(tables models.ScoringTables) error {
	rules, err := domainService.NewRuleSet(tables)
	if err != nil {
		s.metrics.RecordConfigReload(false)
		s.logger.Error(context.Background(), "Rejected scoring table reload", err)
		return err
	}
	s.rules.Store(rules)
	s.metrics.RecordConfigReload(true)
	s.logger.Info(context.Background(), "Scoring tables reloaded",
		logger.Int("questions", len(tables.Questions)),
		logger.Int("thresholds", len(tables.Thresholds)))
	return nil
}

// Close implements AssessmentAppService.
func (s *assessmentAppServiceImpl) Close() error {
	s.publishing.Wait()
	return nil
}
