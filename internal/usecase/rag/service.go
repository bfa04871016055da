// Package rag runs the retrieval pipeline for one question: hint,
// classify, plan, execute, format, enrich. Steps are strictly ordered;
// each consumes the previous step's output.
package rag

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/assetops/ragline/internal/domain/record"
	"github.com/assetops/ragline/internal/format"
	"github.com/assetops/ragline/internal/metrics"
)

// NoSourcesNotice is returned when no registered source matches the
// question.
const NoSourcesNotice = "No relevant data sources found for this query."

// Result is the retrieval output handed to the answer generator.
type Result struct {
	Context string
	Sources []record.Record
}

// Service is the retrieval pipeline.
type Service struct {
	hints    Hinter
	classify Classifier
	plan     Planner
	execute  Executor
	registry SourceResolver
	logger   *zap.Logger
}

// New creates the pipeline service.
func New(
	hints Hinter, classify Classifier, plan Planner,
	execute Executor, registry SourceResolver, logger *zap.Logger,
) *Service {
	return &Service{
		hints:    hints,
		classify: classify,
		plan:     plan,
		execute:  execute,
		registry: registry,
		logger:   logger,
	}
}

// Query answers one question with grounded context. Planning is
// advisory and never blocks execution; classification degrades to a
// keyword fallback inside the classifier, so the only empty-handed
// outcome is an unresolvable source catalog.
func (s *Service) Query(ctx context.Context, question string) (Result, error) {
	start := time.Now()

	enhanced := s.hints.EnhanceQuery(question)

	in, err := s.classify.Classify(ctx, enhanced, s.registry.All())
	if err != nil {
		metrics.PipelineQueriesTotal.WithLabelValues("unknown", "error").Inc()
		return Result{}, err
	}

	sources := s.registry.Resolve(in.Entities())
	if len(sources) == 0 {
		s.logger.Warn("no relevant sources for question")
		return Result{Context: NoSourcesNotice}, nil
	}

	s.plan.PlanAll(ctx, sources, in)

	records := s.execute.Run(ctx, sources, in)
	formatted := format.Format(records)
	enriched := s.hints.EnrichContext(formatted, question)

	metrics.PipelineQueriesTotal.WithLabelValues(string(in.Kind()), "success").Inc()
	metrics.PipelineQueryDuration.WithLabelValues(string(in.Kind())).Observe(time.Since(start).Seconds())

	s.logger.Info("retrieval pipeline complete",
		zap.String("intent", string(in.Kind())),
		zap.Int("sources", len(sources)),
		zap.Int("records", len(records)),
		zap.Duration("duration", time.Since(start)))

	return Result{Context: enriched, Sources: records}, nil
}
