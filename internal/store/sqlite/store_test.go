package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/assetops/ragline/internal/db"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	stmts := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO "employees" ("id", "employeeId", "firstName", "lastName", "department", "position") VALUES (?, ?, ?, ?, ?, ?)`,
			[]any{1, "EMP-001", "Maria", "Santos", "IT", "Developer"}},
		{`INSERT INTO "assets" ("id", "assetNo", "assetName", "isDraft", "isVerified") VALUES (?, ?, ?, ?, ?)`,
			[]any{1, "ASSET-0001", "Dell Laptop", 0, 1}},
		{`INSERT INTO "assets" ("id", "assetNo", "assetName", "isDraft", "isVerified") VALUES (?, ?, ?, ?, ?)`,
			[]any{2, "ASSET-0002", "HP Printer", 1, 0}},
		{`INSERT INTO "assets_inventory" ("id", "inventoryNo", "status", "asset_id", "custodian_id") VALUES (?, ?, ?, ?, ?)`,
			[]any{1, "ASSET-0001-INV-1", "Issued", 1, 1}},
		{`INSERT INTO "assets_inventory" ("id", "inventoryNo", "status", "asset_id") VALUES (?, ?, ?, ?)`,
			[]any{2, "ASSET-0001-INV-2", "Available", 1}},
	}
	for _, st := range stmts {
		if _, err := s.DB().Exec(st.sql, st.args...); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestOpen_AppliesSchema(t *testing.T) {
	s := openTestStore(t)

	var n int
	err := s.DB().QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN
		 ('assets','assets_inventory','employees','asset_transactions','asset_depreciation','depreciation_record')`,
	).Scan(&n)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if n != 6 {
		t.Errorf("expected 6 tables, got %d", n)
	}
}

func TestCount_WithFilter(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)

	q := &db.Query{
		Table: "assets",
		Alias: "assets",
		Conds: []db.Condition{{Field: "isDraft", Values: []any{1}}},
	}
	n, err := s.Count(context.Background(), q)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 draft asset, got %d", n)
	}
}

func TestSelect_PlainColumns(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)

	q := &db.Query{
		Table:   "assets",
		Alias:   "assets",
		Columns: []db.Column{{Name: "id"}, {Name: "assetNo"}, {Name: "assetName"}},
		Conds:   []db.Condition{{Field: "isVerified", Values: []any{1}}},
		Limit:   10,
	}
	rows, err := s.Select(context.Background(), q)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["assetNo"] != "ASSET-0001" {
		t.Errorf("unexpected assetNo: %v", rows[0]["assetNo"])
	}
}

func TestSelect_JoinedColumnsNest(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)

	q := &db.Query{
		Table: "assets_inventory",
		Alias: "inventories",
		Columns: []db.Column{
			{Name: "id"},
			{Name: "inventoryNo"},
			{Relation: "custodian", Name: "firstName"},
			{Relation: "custodian", Name: "lastName"},
		},
		Joins: []db.Join{
			{Relation: "custodian", Table: "employees", LocalKey: "custodian_id", RefKey: "id"},
		},
		Conds: []db.Condition{{Field: "inventoryNo", Values: []any{"ASSET-0001-INV-1"}}},
	}
	rows, err := s.Select(context.Background(), q)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	custodian, ok := rows[0]["custodian"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested custodian map, got %T", rows[0]["custodian"])
	}
	if custodian["firstName"] != "Maria" || custodian["lastName"] != "Santos" {
		t.Errorf("unexpected custodian: %v", custodian)
	}
}

func TestCount_DistinctUnderJoin(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)

	// one employee holds one of two inventory rows; a plain COUNT over
	// the join would double-count the asset
	q := &db.Query{
		Table: "assets",
		Alias: "assets",
		Joins: []db.Join{
			{Relation: "inventory", Table: "assets_inventory", LocalKey: "id", RefKey: "asset_id"},
		},
	}
	n, err := s.Count(context.Background(), q)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 distinct assets, got %d", n)
	}
}

func TestSelect_InvalidTable(t *testing.T) {
	s := openTestStore(t)

	q := &db.Query{Table: "nonexistent", Alias: "nonexistent"}
	if _, err := s.Select(context.Background(), q); err == nil {
		t.Error("expected error for missing table")
	}
}

func TestWaitForReady(t *testing.T) {
	s := openTestStore(t)
	if err := s.WaitForReady(context.Background(), 2*time.Second); err != nil {
		t.Errorf("WaitForReady: %v", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
