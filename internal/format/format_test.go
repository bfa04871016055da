package format

import (
	"strings"
	"testing"
	"time"

	"github.com/assetops/ragline/internal/domain/record"
)

func TestFormat_EmptyReturnsSentinel(t *testing.T) {
	if got := Format(nil); got != NoDataSentinel {
		t.Errorf("expected sentinel, got %q", got)
	}
	if got := Format([]record.Record{}); got != NoDataSentinel {
		t.Errorf("expected sentinel for empty slice, got %q", got)
	}
}

func TestFormat_CountRecord(t *testing.T) {
	rec := record.NewCount("assets", 42, "Available")
	got := Format([]record.Record{rec})
	if got != "assets: 42 Available records" {
		t.Errorf("unexpected count rendering: %q", got)
	}
}

func TestFormat_CountDefaultsToTotal(t *testing.T) {
	rec := record.NewCount("assets", 5, "")
	if got := Format([]record.Record{rec}); got != "assets: 5 total records" {
		t.Errorf("unexpected rendering: %q", got)
	}
}

func TestFormat_EntityRecordFiltersAuditKeys(t *testing.T) {
	rec := record.NewRow("assets", 1, map[string]any{
		"id":        int64(1),
		"assetNo":   "ASSET-0001",
		"assetName": "Dell Laptop",
		"createdAt": "2026-01-01",
	})
	got := Format([]record.Record{rec})

	if !strings.HasPrefix(got, "[1] assets: ") {
		t.Errorf("missing index prefix: %q", got)
	}
	if strings.Contains(got, "createdAt") || strings.Contains(got, "id: 1") {
		t.Errorf("audit keys must be filtered: %q", got)
	}
	if !strings.Contains(got, "assetNo: ASSET-0001") {
		t.Errorf("missing field: %q", got)
	}
}

func TestFormat_AllAuditKeysShowsEverything(t *testing.T) {
	rec := record.NewRow("assets", 1, map[string]any{
		"id":        int64(1),
		"updatedAt": "2026-01-01",
	})
	got := Format([]record.Record{rec})
	if !strings.Contains(got, "id: 1") {
		t.Errorf("expected all fields when filtering would empty the record: %q", got)
	}
}

func TestFormat_NestedDataFlattens(t *testing.T) {
	rec := record.NewRow("assets_inventory", 1, map[string]any{
		"inventoryNo": "ASSET-0001-INV-1",
		"custodian": map[string]any{
			"firstName": "Maria",
			"lastName":  "Santos",
		},
	})
	got := Format([]record.Record{rec})
	if !strings.Contains(got, "custodian: firstName: Maria, lastName: Santos") {
		t.Errorf("nested map not flattened: %q", got)
	}
}

func TestFormat_MultipleRecordsSeparated(t *testing.T) {
	recs := []record.Record{
		record.NewRow("assets", 1, map[string]any{"assetNo": "A-1"}),
		record.NewRow("assets", 2, map[string]any{"assetNo": "A-2"}),
	}
	got := Format(recs)
	parts := strings.Split(got, "\n\n")
	if len(parts) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %q", len(parts), got)
	}
	if !strings.HasPrefix(parts[1], "[2]") {
		t.Errorf("second block misnumbered: %q", parts[1])
	}
}

func TestFlattenValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "null"},
		{"string", "hello", "hello"},
		{"int", int64(7), "7"},
		{"bool", true, "true"},
		{"empty array", []any{}, "[]"},
		{"array", []any{"a", "b"}, "a, b"},
		{"empty map", map[string]any{}, "{}"},
		{"time", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), "2026-03-01T12:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flattenValue(tt.in, 0); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlattenValue_DepthGuard(t *testing.T) {
	deep := map[string]any{}
	current := deep
	for i := 0; i < 20; i++ {
		next := map[string]any{}
		current["n"] = next
		current = next
	}
	current["leaf"] = "x"

	got := flattenValue(deep, 0)
	if !strings.Contains(got, "[max depth reached]") {
		t.Errorf("expected depth guard marker: %q", got)
	}
}
