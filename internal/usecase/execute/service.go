// Package execute turns a classified intent into bounded relational
// queries and runs them per source. Filters pass through a per-source
// whitelist, joins come only from declared relation metadata, and row
// counts are capped, so the LLM never influences SQL shape directly.
package execute

import (
	"context"

	"go.uber.org/zap"

	"github.com/assetops/ragline/internal/db"
	"github.com/assetops/ragline/internal/domain/intent"
	"github.com/assetops/ragline/internal/domain/record"
	"github.com/assetops/ragline/internal/domain/source"
)

const (
	listLimit   = 10
	detailLimit = 1
)

// Service executes intents against the relational store.
type Service struct {
	querier Querier
	logger  *zap.Logger
}

// New creates an execution service.
func New(querier Querier, logger *zap.Logger) *Service {
	return &Service{querier: querier, logger: logger}
}

// Run executes the intent against every selected source in order. A
// failing source is logged and skipped; partial results are better
// than none when the question spans several tables.
func (s *Service) Run(ctx context.Context, sources []source.Source, in intent.Intent) []record.Record {
	var results []record.Record
	for _, src := range sources {
		recs, err := s.runSource(ctx, src, in)
		if err != nil {
			s.logger.Error("source query failed",
				zap.String("table", src.Table()),
				zap.Error(err))
			continue
		}
		results = append(results, recs...)
	}
	return results
}

func (s *Service) runSource(ctx context.Context, src source.Source, in intent.Intent) ([]record.Record, error) {
	q := s.buildQuery(src, in)

	if in.Kind() == intent.Count {
		n, err := s.querier.Count(ctx, q)
		if err != nil {
			return nil, err
		}
		countType, _ := in.StatusFilter()
		return []record.Record{record.NewCount(src.Table(), n, countType)}, nil
	}

	if in.Kind() == intent.Detail {
		q.Limit = detailLimit
	} else {
		q.Limit = listLimit
	}

	rows, err := s.querier.Select(ctx, q)
	if err != nil {
		return nil, err
	}

	recs := make([]record.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, record.NewRow(src.Table(), rowID(row), row))
	}
	return recs, nil
}

// buildQuery maps the descriptor's field list and the intent's filters
// onto a query spec. Dotted fields join their declared relation once;
// undeclared or deeper paths are skipped.
func (s *Service) buildQuery(src source.Source, in intent.Intent) *db.Query {
	q := &db.Query{Table: src.Table(), Alias: src.Name()}
	joined := map[string]bool{}

	for _, field := range src.Fields() {
		rel, col := source.SplitFieldPath(field)
		if rel == "" {
			q.Columns = append(q.Columns, db.Column{Name: col})
			continue
		}

		meta, ok := src.Relation(rel)
		if !ok {
			s.logger.Debug("skipping field with undeclared relation",
				zap.String("source", src.Name()),
				zap.String("field", field))
			continue
		}
		if !joined[rel] {
			q.Joins = append(q.Joins, db.Join{
				Relation: rel,
				Table:    meta.Table,
				LocalKey: meta.LocalKey,
				RefKey:   meta.RefKey,
			})
			joined[rel] = true
		}
		// one join level only: a remaining dot means a nested
		// relation path the builder cannot reach
		if nestedRel, _ := source.SplitFieldPath(col); nestedRel != "" {
			s.logger.Debug("skipping nested relation field",
				zap.String("source", src.Name()),
				zap.String("field", field))
			continue
		}
		q.Columns = append(q.Columns, db.Column{Relation: rel, Name: col})
	}

	applied := s.applyFilters(q, src, in.Filters(), joined)
	s.logger.Debug("filters applied",
		zap.String("table", src.Table()),
		zap.Int("applied", applied),
		zap.Int("requested", len(in.Filters())))

	return q
}

// applyFilters adds whitelisted filters as conditions and returns how
// many were applied. Non-queryable keys are dropped, never passed on.
func (s *Service) applyFilters(q *db.Query, src source.Source, filters map[string]any, joined map[string]bool) int {
	applied := 0
	for key, value := range filters {
		if !src.IsQueryable(key) {
			s.logger.Warn("skipped non-queryable filter field",
				zap.String("source", src.Name()),
				zap.String("field", key))
			continue
		}

		rel, col := source.SplitFieldPath(key)
		if rel != "" && !joined[rel] {
			s.logger.Warn("skipped filter on unjoined relation",
				zap.String("source", src.Name()),
				zap.String("field", key))
			continue
		}

		q.Conds = append(q.Conds, db.Condition{
			Relation: rel,
			Field:    col,
			Values:   filterValues(value),
		})
		applied++
	}
	return applied
}

func filterValues(v any) []any {
	if vs, ok := v.([]any); ok {
		return vs
	}
	return []any{v}
}

func rowID(row map[string]any) int64 {
	switch id := row["id"].(type) {
	case int64:
		return id
	case int:
		return int64(id)
	case float64:
		return int64(id)
	}
	return 0
}
