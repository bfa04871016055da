// Package plan asks the LLM to reason through the query construction
// for each selected source before execution. The plan text is advisory:
// it is logged for observability and never parsed, so a planning
// failure degrades to a fixed notice instead of aborting the pipeline.
package plan

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
	planTemperature = 0.2
	planMaxTokens   = 600

	// FailedNotice is returned when planning fails for a source.
	FailedNotice = "Planning failed - will use default query strategy"
)

// Service plans queries per source.
type Service struct {
	chat   ChatClient
	logger *zap.Logger
}

// New creates a planning service.
func New(chat ChatClient, logger *zap.Logger) *Service {
	return &Service{chat: chat, logger: logger}
}

// PlanAll plans a query for every source in order. Each plan is
// independent; one failure does not stop the rest.
func (s *Service) PlanAll(ctx context.Context, sources []source.Source, in intent.Intent) []string {
	plans := make([]string, 0, len(sources))
	for _, src := range sources {
		plans = append(plans, s.Plan(ctx, src, in))
	}
	return plans
}

// Plan produces the step-by-step query plan for one source.
func (s *Service) Plan(ctx context.Context, src source.Source, in intent.Intent) string {
	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: buildPlanPrompt(src, in)},
		{Role: domain.RoleUser, Content: "Plan the SQL query for: " + src.Table()},
	}

	resp, err := s.chat.Chat(ctx, messages, domain.ChatOptions{
		Temperature: planTemperature,
		MaxTokens:   planMaxTokens,
	})
	if err != nil {
		s.logger.Warn("query planning failed",
			zap.String("table", src.Table()),
			zap.Error(err))
		return FailedNotice
	}

	s.logger.Debug("query plan",
		zap.String("table", src.Table()),
		zap.String("plan", resp.Content))
	return resp.Content
}

func buildPlanPrompt(src source.Source, in intent.Intent) string {
	filters, _ := json.Marshal(in.Filters())
	fields, _ := json.Marshal(in.Fields())
	if in.Fields() == nil {
		fields = []byte("[]")
	}

	return fmt.Sprintf(`You are an expert SQL query planner for asset management systems.
Your task is to plan a SQL query step-by-step based on the provided schema and user intent.

TABLE INFORMATION:
- Table name: %s
- Table alias: %s
- Available fields: %s
- Queryable/filterable fields: %s

USER INTENT:
- Query type: %s
- Requested filters: %s
- Requested fields: %s

TASK:
Step-by-step, determine how to construct the SQL query:

1. SELECT clause:
   - List exactly which fields should be selected.
   - If it is a count query, use COUNT(*) only.

2. WHERE clause:
   - Include only filters using queryable fields.
   - Show the condition format clearly.

3. Aggregations:
   - Specify if COUNT, SUM, AVG, or other aggregations are required.

4. LIMIT clause:
   - Specify the number of records if applicable.

5. ORDER BY clause:
   - Specify sorting fields and order if applicable.

RULES:
- Use only "Available fields" in SELECT.
- Filter only on "Queryable/filterable fields".
- Follow standard SQL syntax conventions.
- Respond only with the step-by-step plan, do not generate the final SQL yet.`,
		src.Table(), src.Name(),
		strings.Join(src.Fields(), ", "),
		strings.Join(src.QueryableFields(), ", "),
		in.Kind(), filters, fields)
}
