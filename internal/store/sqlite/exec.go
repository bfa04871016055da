package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/assetops/ragline/internal/db"
)

// Count executes the query's count form.
func (s *Store) Count(ctx context.Context, q *db.Query) (int64, error) {
	stmt, args := q.CountSQL()
	var n int64
	if err := s.db.QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", q.Table, err)
	}
	return n, nil
}

// Select executes the query and returns rows as maps. Joined columns
// arrive aliased "relation.field" and are folded into nested maps, so
// a custodian join yields data["custodian"]["firstName"].
func (s *Store) Select(ctx context.Context, q *db.Query) ([]map[string]any, error) {
	stmt, args := q.SelectSQL()
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", q.Table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", q.Table, err)
	}

	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("select %s: %w", q.Table, err)
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			setColumn(row, col, normalizeValue(vals[i]))
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// setColumn folds a "relation.field" alias into a nested map; plain
// columns go in directly.
func setColumn(row map[string]any, col string, val any) {
	rel, field, ok := strings.Cut(col, ".")
	if !ok {
		row[col] = val
		return
	}
	nested, _ := row[rel].(map[string]any)
	if nested == nil {
		nested = make(map[string]any)
		row[rel] = nested
	}
	nested[field] = val
}

func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
