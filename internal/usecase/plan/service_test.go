package plan

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/assetops/ragline/internal/domain"
	"github.com/assetops/ragline/internal/domain/intent"
	"github.com/assetops/ragline/internal/domain/source"
)

type stubChat struct {
	content  string
	err      error
	lastSys  string
	lastOpts domain.ChatOptions
}

func (s *stubChat) Chat(_ context.Context, messages []domain.Message, opts domain.ChatOptions) (domain.ChatResponse, error) {
	if len(messages) > 0 {
		s.lastSys = messages[0].Content
	}
	s.lastOpts = opts
	if s.err != nil {
		return domain.ChatResponse{}, s.err
	}
	return domain.ChatResponse{Content: s.content}, nil
}

func testSource(t *testing.T) source.Source {
	t.Helper()
	s, err := source.New("assets", "Assets", "assets",
		[]string{"id", "assetNo", "assetName"},
		[]string{"assetNo", "isDraft"}, nil, "")
	if err != nil {
		t.Fatalf("source.New: %v", err)
	}
	return s
}

func TestPlan_ReturnsModelPlan(t *testing.T) {
	chat := &stubChat{content: "1. SELECT assetNo, assetName\n2. WHERE isDraft = true"}
	svc := New(chat, zap.NewNop())

	in := intent.New(intent.List, []string{"assets"}, map[string]any{"isDraft": true}, nil)
	got := svc.Plan(context.Background(), testSource(t), in)

	if got != chat.content {
		t.Errorf("unexpected plan: %s", got)
	}
	if !strings.Contains(chat.lastSys, "Table name: assets") {
		t.Error("prompt missing table name")
	}
	if !strings.Contains(chat.lastSys, "Queryable/filterable fields: assetNo, isDraft") {
		t.Error("prompt missing queryable fields")
	}
	if chat.lastOpts.Temperature != planTemperature {
		t.Errorf("unexpected temperature: %v", chat.lastOpts.Temperature)
	}
}

func TestPlan_FailureDegradesToNotice(t *testing.T) {
	chat := &stubChat{err: errors.New("provider down")}
	svc := New(chat, zap.NewNop())

	in := intent.New(intent.Count, nil, nil, nil)
	if got := svc.Plan(context.Background(), testSource(t), in); got != FailedNotice {
		t.Errorf("expected failure notice, got %s", got)
	}
}

func TestPlanAll_OneFailureDoesNotStopRest(t *testing.T) {
	calls := 0
	chat := &flakyChat{failOn: 1, calls: &calls}
	svc := New(chat, zap.NewNop())

	in := intent.New(intent.List, nil, nil, nil)
	plans := svc.PlanAll(context.Background(), []source.Source{testSource(t), testSource(t)}, in)

	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(plans))
	}
	if plans[0] != FailedNotice {
		t.Errorf("expected first plan to fail, got %s", plans[0])
	}
	if plans[1] != "ok" {
		t.Errorf("expected second plan to succeed, got %s", plans[1])
	}
}

type flakyChat struct {
	failOn int
	calls  *int
}

func (f *flakyChat) Chat(_ context.Context, _ []domain.Message, _ domain.ChatOptions) (domain.ChatResponse, error) {
	*f.calls++
	if *f.calls == f.failOn {
		return domain.ChatResponse{}, errors.New("transient")
	}
	return domain.ChatResponse{Content: "ok"}, nil
}
