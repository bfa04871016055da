package classify

import (
	"context"

	"github.com/assetops/ragline/internal/domain"
)

// ChatClient sends chat completions to the configured LLM provider.
type ChatClient interface {
	Chat(ctx context.Context, messages []domain.Message, opts domain.ChatOptions) (domain.ChatResponse, error)
}
