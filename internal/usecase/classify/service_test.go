package classify

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/assetops/ragline/internal/domain"
	"github.com/assetops/ragline/internal/domain/intent"
	"github.com/assetops/ragline/internal/domain/source"
)

type stubChat struct {
	content string
	err     error
}

func (s *stubChat) Chat(_ context.Context, _ []domain.Message, _ domain.ChatOptions) (domain.ChatResponse, error) {
	if s.err != nil {
		return domain.ChatResponse{}, s.err
	}
	return domain.ChatResponse{Content: s.content}, nil
}

func testSources(t *testing.T) []source.Source {
	t.Helper()
	assets, err := source.New("assets", "Assets", "assets",
		[]string{"id", "assetNo", "assetName", "isDraft"},
		[]string{"assetNo", "isDraft", "isVerified"}, nil,
		"Master asset records with verification status.")
	if err != nil {
		t.Fatalf("source.New: %v", err)
	}
	employees, err := source.New("employees", "Employee", "employees",
		[]string{"id", "firstName", "lastName"},
		[]string{"firstName", "lastName", "department"}, nil, "")
	if err != nil {
		t.Fatalf("source.New: %v", err)
	}
	return []source.Source{assets, employees}
}

func TestClassify_ParsesJSONAfterReasoning(t *testing.T) {
	chat := &stubChat{content: `Step 1: the user asks for a quantity.
Step 3: this is a count query over assets.

{"intent": "count", "entities": ["assets"], "filters": {"isDraft": true}, "fields": []}`}
	svc := New(chat, zap.NewNop())

	got, err := svc.Classify(context.Background(), "how many draft assets?", testSources(t))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Kind() != intent.Count {
		t.Errorf("expected count intent, got %s", got.Kind())
	}
	if len(got.Entities()) != 1 || got.Entities()[0] != "assets" {
		t.Errorf("unexpected entities: %v", got.Entities())
	}
	if got.Filters()["isDraft"] != true {
		t.Errorf("unexpected filters: %v", got.Filters())
	}
}

func TestClassify_ChatErrorFallsBack(t *testing.T) {
	chat := &stubChat{err: errors.New("provider down")}
	svc := New(chat, zap.NewNop())

	got, err := svc.Classify(context.Background(), "how many assets do we have?", testSources(t))
	if err != nil {
		t.Fatalf("Classify must not propagate provider errors, got %v", err)
	}
	if got.Kind() != intent.Count {
		t.Errorf("expected fallback count intent, got %s", got.Kind())
	}
}

func TestClassify_NonJSONResponseFallsBack(t *testing.T) {
	chat := &stubChat{content: "I am not sure what you mean."}
	svc := New(chat, zap.NewNop())

	got, err := svc.Classify(context.Background(), "list all employees", testSources(t))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Kind() != intent.List {
		t.Errorf("expected fallback list intent, got %s", got.Kind())
	}
	if len(got.Entities()) != 1 || got.Entities()[0] != "employees" {
		t.Errorf("expected employees entity from fallback, got %v", got.Entities())
	}
}

func TestClassify_UnknownKindDegradesToList(t *testing.T) {
	chat := &stubChat{content: `{"intent": "explode", "entities": ["assets"], "filters": {}, "fields": []}`}
	svc := New(chat, zap.NewNop())

	got, err := svc.Classify(context.Background(), "do something", testSources(t))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Kind() != intent.List {
		t.Errorf("expected list for unknown kind, got %s", got.Kind())
	}
}

func TestExtractJSON_BalancedBraces(t *testing.T) {
	content := `reasoning with {"nested": {"a": 1}} trailing text {"b": 2}`
	got, err := extractJSON(content)
	if err != nil {
		t.Fatalf("extractJSON: %v", err)
	}
	if got != `{"nested": {"a": 1}}` {
		t.Errorf("unexpected extraction: %s", got)
	}
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	content := `{"note": "a { brace } inside", "ok": true}`
	got, err := extractJSON(content)
	if err != nil {
		t.Fatalf("extractJSON: %v", err)
	}
	if got != content {
		t.Errorf("unexpected extraction: %s", got)
	}
}

func TestExtractJSON_Missing(t *testing.T) {
	if _, err := extractJSON("no json here"); !errors.Is(err, domain.ErrNoJSONFound) {
		t.Errorf("expected ErrNoJSONFound, got %v", err)
	}
}

func TestFallback_Filters(t *testing.T) {
	sources := testSources(t)

	tests := []struct {
		name     string
		question string
		kind     intent.Kind
		filters  map[string]any
	}{
		{"draft", "show draft assets", intent.List, map[string]any{"isDraft": true, "isVerified": false}},
		{"verified", "count verified assets", intent.Count, map[string]any{"isVerified": true}},
		{"approved", "list all approved assets", intent.List, map[string]any{"isApproved": true}},
		{"available", "find available items", intent.Detail, map[string]any{"status": "Available"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fallback(tt.question, sources)
			if got.Kind() != tt.kind {
				t.Errorf("kind: got %s, want %s", got.Kind(), tt.kind)
			}
			for k, v := range tt.filters {
				if got.Filters()[k] != v {
					t.Errorf("filter %s: got %v, want %v", k, got.Filters()[k], v)
				}
			}
		})
	}
}
