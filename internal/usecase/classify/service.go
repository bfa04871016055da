// Package classify turns a natural-language question into a structured
// query intent using the LLM, with a keyword fallback when the model is
// unreachable or returns garbage.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/assetops/ragline/internal/domain"
	"github.com/assetops/ragline/internal/domain/intent"
	"github.com/assetops/ragline/internal/domain/source"
)

const (
	classifyTemperature = 0.1
	classifyMaxTokens   = 1200
)

// Service classifies questions into query intents.
type Service struct {
	chat   ChatClient
	logger *zap.Logger
}

// New creates a classification service.
func New(chat ChatClient, logger *zap.Logger) *Service {
	return &Service{chat: chat, logger: logger}
}

// Classify asks the model to analyze the question against the source
// catalog. Any failure (transport, missing JSON, invalid structure)
// degrades to the keyword fallback rather than propagating.
func (s *Service) Classify(ctx context.Context, question string, sources []source.Source) (intent.Intent, error) {
	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: buildAnalysisPrompt(sources)},
		{Role: domain.RoleUser, Content: question},
	}

	resp, err := s.chat.Chat(ctx, messages, domain.ChatOptions{
		Temperature: classifyTemperature,
		MaxTokens:   classifyMaxTokens,
	})
	if err != nil {
		s.logger.Warn("intent classification failed, using fallback", zap.Error(err))
		return Fallback(question, sources), nil
	}

	parsed, err := parseIntent(resp.Content)
	if err != nil {
		s.logger.Warn("intent parsing failed, using fallback",
			zap.Error(err),
			zap.Int("response_len", len(resp.Content)))
		return Fallback(question, sources), nil
	}

	return parsed, nil
}

// buildAnalysisPrompt renders the schema catalog and the five-step
// analysis rubric the model follows before emitting JSON.
func buildAnalysisPrompt(sources []source.Source) string {
	var catalog strings.Builder
	for i, src := range sources {
		if i > 0 {
			catalog.WriteString("\n\n")
		}
		desc := src.Description()
		if desc == "" {
			desc = src.Table()
		}
		fmt.Fprintf(&catalog, "- %s: %s\n  Queryable fields: %s",
			src.Name(), desc, strings.Join(src.QueryableFields(), ", "))
	}

	return `You are an expert query analyzer for systems with multiple data sources.
Your task is to analyze the user's question step-by-step to determine the intent, relevant sources, filters, and requested fields.

AVAILABLE DATA SOURCES:
` + catalog.String() + `

ANALYSIS STEPS:

Step 1: UNDERSTAND THE QUESTION
- Determine exactly what the user is asking for.
- Identify key concepts and entities mentioned.

Step 2: IDENTIFY DATA SOURCES
- Determine which table(s) contain the requested information.
- Decide if multiple tables need to be joined.

Step 3: DETERMINE QUERY TYPE
- count: User wants quantity/number (e.g., "how many", "count")
- list: User wants multiple records (e.g., "show", "list", "what are")
- detail: User wants specific record details (e.g., "find specific", "details of")
- aggregate: User wants calculations (e.g., sum, average, min, max)

Step 4: EXTRACT FILTERS
- Identify conditions mentioned in natural language (status, date, type, etc.)
- Map them to queryable fields only
- Ignore any field not listed as queryable

Step 5: IDENTIFY REQUESTED FIELDS
- List the fields the user wants returned
- If none are specified, default to all available fields from the selected sources

OUTPUT FORMAT:
After your analysis, provide JSON in this exact format:

{
  "intent": "count|list|detail|aggregate",
  "entities": ["source_name"],
  "filters": {"field": "value"},
  "fields": ["field1", "field2"]
}

INSTRUCTIONS:
1. First show your step-by-step reasoning clearly.
2. Then output only the JSON in the exact format above.
3. Use only queryable fields listed for each source.
4. Be precise and conservative in mapping natural language to fields.`
}

type intentPayload struct {
	Intent   string         `json:"intent"`
	Entities []string       `json:"entities"`
	Filters  map[string]any `json:"filters"`
	Fields   []string       `json:"fields"`
}

// parseIntent extracts the first balanced JSON object from the model's
// reasoning text and validates the required keys.
func parseIntent(content string) (intent.Intent, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return intent.Intent{}, err
	}

	var payload intentPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return intent.Intent{}, fmt.Errorf("%w: %w", domain.ErrInvalidIntent, err)
	}
	if payload.Intent == "" || payload.Entities == nil {
		return intent.Intent{}, fmt.Errorf("%w: missing intent or entities", domain.ErrInvalidIntent)
	}

	return intent.New(intent.Kind(payload.Intent), payload.Entities, payload.Filters, payload.Fields), nil
}

// extractJSON returns the outermost brace-delimited object in content.
// The model emits reasoning text before the JSON, so a plain
// json.Unmarshal of the whole response would never succeed.
func extractJSON(content string) (string, error) {
	start := strings.IndexByte(content, '{')
	if start < 0 {
		return "", domain.ErrNoJSONFound
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return content[start : i+1], nil
			}
		}
	}
	return "", domain.ErrNoJSONFound
}
