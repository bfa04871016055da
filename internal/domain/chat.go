package domain

import (
	"context"
	"time"
)

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat turn.
type Message struct {
	Role    string
	Content string
}

// ChatOptions tunes a single chat call. Zero values fall back to the
// provider defaults.
type ChatOptions struct {
	Temperature float32
	MaxTokens   int
}

// ChatMetadata carries provider bookkeeping for a chat response.
type ChatMetadata struct {
	Model           string
	Latency         time.Duration
	EstimatedTokens int
}

// ChatResponse is the text-generation model output.
type ChatResponse struct {
	Content  string
	Metadata ChatMetadata
}

// ChatClient is the shared text-generation contract between layers. The
// implementation is a black-box collaborator: callers must tolerate it
// failing or returning malformed text.
type ChatClient interface {
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (ChatResponse, error)
}
