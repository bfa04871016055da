// Package chatbot answers conversations grounded in retrieved database
// context. It owns the assistant persona, assembles the system prompt
// per turn, and persists answered messages to the embedding history.
package chatbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/assetops/ragline/internal/domain"
)

const defaultSystemPrompt = `You are AIMS (Asset Inventory Management System), an AI assistant specialized in asset management.

Purpose:
Answer questions strictly related to asset management, including assets, issuance, maintenance, disposal, and related operational data.

Guidelines:

1. Retrieval-Augmented Generation (RAG):
- Always query the database first to retrieve relevant information.
- Use relational links between entities when answering questions (e.g., asset -> custodian -> department).
- If a field references another entity, fetch the related data and present it in context.
- Only respond based on actual retrieved data; do not assume, fabricate, or guess.

2. Response Style:
- Provide concise, factual answers.
- Avoid unnecessary commentary, greetings, or lengthy explanations.
- Use professional but conversational language.

3. Identity Questions:
- If asked about your name or identity, respond: "I am AIMS, the Asset Inventory Management System assistant."

4. Out-of-Scope Questions:
- If asked anything unrelated to asset management (except your identity), respond exactly with:
  "Sorry, I could not answer that question. I'm an AI smart assistant chatbot for asset management purposes only."

5. Data Handling & Context Understanding:
- Only use information retrieved from the database or provided context.
- Clearly indicate if information is missing or unavailable ("Not Applicable" or "Unknown").
- When retrieving relational data, include relevant connected fields (e.g., show custodian name, department, and contact if querying an asset).
- Convert all database field names to human-readable text:
  - snake_case -> Title Case
  - Remove technical prefixes/suffixes
  - Present data in clear, understandable terms
- Never expose raw database values, technical field names, or undefined/null values in responses.`

const (
	answerTemperature = 0.5
	answerMaxTokens   = 1024

	titleTemperature = 0.7
	titleMaxTokens   = 50
	titleMaxLen      = 100

	// DefaultTitle is used when title generation fails or yields nothing.
	DefaultTitle = "New Chat"

	retrievalErrorNotice = "Error retrieving database context."
)

// Service orchestrates grounded conversations.
type Service struct {
	chat      ChatClient
	retriever Retriever
	history   HistoryWriter
	logger    *zap.Logger
}

// New creates a chatbot service.
func New(chat ChatClient, retriever Retriever, history HistoryWriter, logger *zap.Logger) *Service {
	return &Service{chat: chat, retriever: retriever, history: history, logger: logger}
}

// Answer responds to the latest user message in the conversation. The
// retrieval pipeline grounds the answer; a retrieval failure degrades
// to an error notice in the prompt rather than failing the turn. The
// assistant's reply is persisted to history best-effort.
func (s *Service) Answer(ctx context.Context, messages []domain.Message) (domain.ChatResponse, error) {
	question := lastUserMessage(messages)
	if question == "" {
		return domain.ChatResponse{}, domain.ErrEmptyQuestion
	}

	dbContext := s.retrieve(ctx, question)

	conversation := make([]domain.Message, 0, len(messages)+1)
	conversation = append(conversation, domain.Message{
		Role:    domain.RoleSystem,
		Content: buildGroundedPrompt(dbContext),
	})
	for _, m := range messages {
		if m.Role == domain.RoleSystem {
			continue
		}
		conversation = append(conversation, m)
	}

	resp, err := s.chat.Chat(ctx, conversation, domain.ChatOptions{
		Temperature: answerTemperature,
		MaxTokens:   answerMaxTokens,
	})
	if err != nil {
		return domain.ChatResponse{}, fmt.Errorf("generate answer: %w", err)
	}

	if saveErr := s.history.Save(ctx, uuid.NewString(), resp.Content); saveErr != nil {
		s.logger.Warn("failed to persist assistant message", zap.Error(saveErr))
	}

	return resp, nil
}

// SessionTitle generates a short title from the first user message.
// Any failure yields the default title; titles are cosmetic.
func (s *Service) SessionTitle(ctx context.Context, firstMessage string) string {
	messages := []domain.Message{
		{
			Role:    domain.RoleSystem,
			Content: "You are a helpful assistant that creates short, descriptive titles (3-6 words) for chat conversations based on the user's first message. Only respond with the title, nothing else.",
		},
		{
			Role:    domain.RoleUser,
			Content: fmt.Sprintf("Generate a short, descriptive title for a chat that starts with: %q", firstMessage),
		},
	}

	resp, err := s.chat.Chat(ctx, messages, domain.ChatOptions{
		Temperature: titleTemperature,
		MaxTokens:   titleMaxTokens,
	})
	if err != nil {
		s.logger.Warn("title generation failed", zap.Error(err))
		return DefaultTitle
	}

	title := cleanTitle(resp.Content)
	if title == "" {
		return DefaultTitle
	}
	return title
}

func (s *Service) retrieve(ctx context.Context, question string) string {
	res, err := s.retriever.Query(ctx, question)
	if err != nil {
		s.logger.Error("retrieval failed", zap.Error(err))
		return retrievalErrorNotice
	}
	if res.Context == "" {
		s.logger.Warn("retrieval returned empty context")
	}
	return res.Context
}

func buildGroundedPrompt(dbContext string) string {
	return defaultSystemPrompt + `

IMPORTANT: Use ONLY the following database context to answer questions about assets, inventory, transactions, and depreciation. Do not make up data.

DATABASE CONTEXT:
` + dbContext + `

Rules:
1. If the context contains the answer, provide it clearly and concisely
2. If the context doesn't contain the information, say "I don't have that information in the database"
3. Always cite the data source when providing statistics (e.g., "According to the assets table...")
4. Be specific with numbers and status information
5. For count queries, provide exact numbers from the database`
}

func lastUserMessage(messages []domain.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			return strings.TrimSpace(messages[i].Content)
		}
	}
	return ""
}

func cleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, `"'`)
	if len(title) >= 6 && strings.EqualFold(title[:6], "title:") {
		title = strings.TrimSpace(title[6:])
	}
	if len(title) > titleMaxLen {
		title = title[:titleMaxLen]
	}
	return title
}
