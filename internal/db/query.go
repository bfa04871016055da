package db

import (
	"fmt"
	"strings"
)

// Column selects one output column. An empty Relation targets the base
// table; otherwise the joined relation alias.
type Column struct {
	Relation string
	Name     string
}

// Join declares a single LEFT JOIN to a related table. The executor
// guarantees each relation appears at most once.
type Join struct {
	Relation string // alias of the joined table
	Table    string
	LocalKey string // column on the base table
	RefKey   string // column on the joined table
}

// Condition is an equality (one value) or set-membership (several
// values) filter. An empty Relation targets the base table.
type Condition struct {
	Relation string
	Field    string
	Values   []any
}

// Query is the bounded select/count spec produced by the executor. By
// construction it only references declared relations and whitelisted
// filter fields; the builder trusts it and renders SQL mechanically.
type Query struct {
	Table   string
	Alias   string
	Columns []Column
	Joins   []Join
	Conds   []Condition
	Limit   int
}

// SelectSQL renders the query as a SELECT statement with ? placeholders.
// Joined columns are aliased as "relation.field" so the scanner can
// reassemble nested records.
func (q *Query) SelectSQL() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")

	if len(q.Columns) == 0 {
		sb.WriteString(quoteIdent(q.Alias) + ".*")
	} else {
		for i, c := range q.Columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			if c.Relation == "" {
				fmt.Fprintf(&sb, "%s.%s AS %s",
					quoteIdent(q.Alias), quoteIdent(c.Name), quoteIdent(c.Name))
			} else {
				fmt.Fprintf(&sb, "%s.%s AS %s",
					quoteIdent(c.Relation), quoteIdent(c.Name), quoteIdent(c.Relation+"."+c.Name))
			}
		}
	}

	q.writeFromJoins(&sb)
	args := q.writeWhere(&sb)

	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}
	return sb.String(), args
}

// CountSQL renders the query as a count. With joins present it counts
// distinct base rows, since a one-to-many LEFT JOIN would otherwise
// inflate the total.
func (q *Query) CountSQL() (string, []any) {
	var sb strings.Builder
	if len(q.Joins) > 0 {
		fmt.Fprintf(&sb, "SELECT COUNT(DISTINCT %s.id)", quoteIdent(q.Alias))
	} else {
		sb.WriteString("SELECT COUNT(*)")
	}

	q.writeFromJoins(&sb)
	args := q.writeWhere(&sb)
	return sb.String(), args
}

func (q *Query) writeFromJoins(sb *strings.Builder) {
	fmt.Fprintf(sb, " FROM %s AS %s", quoteIdent(q.Table), quoteIdent(q.Alias))
	for _, j := range q.Joins {
		fmt.Fprintf(sb, " LEFT JOIN %s AS %s ON %s.%s = %s.%s",
			quoteIdent(j.Table), quoteIdent(j.Relation),
			quoteIdent(q.Alias), quoteIdent(j.LocalKey),
			quoteIdent(j.Relation), quoteIdent(j.RefKey))
	}
}

func (q *Query) writeWhere(sb *strings.Builder) []any {
	if len(q.Conds) == 0 {
		return nil
	}

	var args []any
	sb.WriteString(" WHERE ")
	for i, c := range q.Conds {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		target := q.Alias
		if c.Relation != "" {
			target = c.Relation
		}
		if len(c.Values) == 1 {
			fmt.Fprintf(sb, "%s.%s = ?", quoteIdent(target), quoteIdent(c.Field))
		} else {
			fmt.Fprintf(sb, "%s.%s IN (%s)",
				quoteIdent(target), quoteIdent(c.Field),
				placeholders(len(c.Values)))
		}
		args = append(args, c.Values...)
	}
	return args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// quoteIdent double-quotes an identifier. Identifiers come from trusted
// descriptors, but quoting keeps camelCase and reserved words safe.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
