package rag

import (
	"context"

	"github.com/assetops/ragline/internal/domain/intent"
	"github.com/assetops/ragline/internal/domain/record"
	"github.com/assetops/ragline/internal/domain/source"
)

// Hinter rewrites questions with domain knowledge before classification
// and enriches the formatted context afterwards.
type Hinter interface {
	EnhanceQuery(question string) string
	EnrichContext(context, question string) string
}

// Classifier turns a question into a structured intent.
type Classifier interface {
	Classify(ctx context.Context, question string, sources []source.Source) (intent.Intent, error)
}

// Planner narrates per-source query plans. Advisory only.
type Planner interface {
	PlanAll(ctx context.Context, sources []source.Source, in intent.Intent) []string
}

// Executor runs the intent against the relational store.
type Executor interface {
	Run(ctx context.Context, sources []source.Source, in intent.Intent) []record.Record
}

// SourceResolver maps intent entities to registered sources.
type SourceResolver interface {
	Resolve(entities []string) []source.Source
	All() []source.Source
}
