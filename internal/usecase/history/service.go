// Package history embeds assistant messages as they are produced and
// retrieves the most similar past messages for a new question. This is
// the one place relevance ranking applies; relational hits always carry
// a fixed relevance.
package history

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/assetops/ragline/internal/embedding"
	repo "github.com/assetops/ragline/internal/repository/history"
)

// Service handles message embedding persistence and similarity lookup.
type Service struct {
	repo   Repository
	engine *embedding.Engine
	logger *zap.Logger
}

// New creates a history service.
func New(r Repository, engine *embedding.Engine, logger *zap.Logger) *Service {
	return &Service{repo: r, engine: engine, logger: logger}
}

// Save embeds and persists one assistant message.
func (s *Service) Save(ctx context.Context, id, content string) error {
	vec := s.engine.Embed(content)
	if err := s.repo.Save(ctx, repo.Message{ID: id, Content: content, Embedding: vec}); err != nil {
		return fmt.Errorf("save message %s: %w", id, err)
	}
	return nil
}

// FindSimilar ranks persisted messages against the question by cosine
// similarity. Messages embedded under a different dimension config fail
// fast rather than comparing truncated vectors.
func (s *Service) FindSimilar(ctx context.Context, question string, topK int) ([]embedding.Match, error) {
	msgs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if len(msgs) == 0 {
		return nil, nil
	}

	candidates := make([]embedding.Candidate, len(msgs))
	for i, m := range msgs {
		candidates[i] = embedding.Candidate{ID: m.ID, Content: m.Content, Embedding: m.Embedding}
	}

	query := s.engine.Embed(question)
	matches, err := embedding.FindMostSimilar(query, candidates, topK)
	if err != nil {
		return nil, fmt.Errorf("rank messages: %w", err)
	}

	s.logger.Debug("similar messages ranked",
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(matches)))
	return matches, nil
}
