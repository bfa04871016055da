package chatbot

import (
	"context"

	"github.com/assetops/ragline/internal/domain"
	"github.com/assetops/ragline/internal/usecase/rag"
)

// ChatClient sends chat completions to the configured LLM provider.
type ChatClient interface {
	Chat(ctx context.Context, messages []domain.Message, opts domain.ChatOptions) (domain.ChatResponse, error)
}

// Retriever runs the retrieval pipeline for a question.
type Retriever interface {
	Query(ctx context.Context, question string) (rag.Result, error)
}

// HistoryWriter persists assistant messages for later similarity lookup.
type HistoryWriter interface {
	Save(ctx context.Context, id, content string) error
}
