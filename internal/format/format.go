// Package format flattens query results into compact text the model can
// cite in its answer.
package format

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/assetops/ragline/internal/domain/record"
)

// NoDataSentinel is returned for empty result sets. It is never the
// empty string, so prompt assembly cannot silently lose the section.
const NoDataSentinel = "No data found in the database."

const maxFlattenDepth = 10

// auditKeys are metadata fields hidden from the rendered context unless
// removing them would leave a record empty.
var auditKeys = map[string]bool{
	"id":        true,
	"createdAt": true,
	"updatedAt": true,
	"deletedAt": true,
}

// Format renders records as numbered context lines. Count-shaped
// records render as a one-line summary; entity records flatten their
// fields to "key: value" pairs with keys sorted for stable output.
func Format(records []record.Record) string {
	if len(records) == 0 {
		return NoDataSentinel
	}

	lines := make([]string, 0, len(records))
	for i, rec := range records {
		if len(rec.Data) == 0 {
			lines = append(lines, fmt.Sprintf("[%d] %s: no data", i+1, rec.Table))
			continue
		}
		if rec.IsCount() {
			lines = append(lines, formatCount(rec))
			continue
		}
		lines = append(lines, fmt.Sprintf("[%d] %s: %s", i+1, rec.Table, formatFields(rec.Data)))
	}
	return strings.Join(lines, "\n\n")
}

func formatCount(rec record.Record) string {
	table, _ := rec.Data[record.TableKey].(string)
	if table == "" {
		table = rec.Table
	}
	countType, _ := rec.Data[record.TypeKey].(string)
	return fmt.Sprintf("%s: %v %s records", table, rec.Data[record.CountKey], countType)
}

func formatFields(data map[string]any) string {
	visible := make([]string, 0, len(data))
	for key := range data {
		if !auditKeys[key] {
			visible = append(visible, key)
		}
	}
	// audit filtering must never empty a record entirely
	if len(visible) == 0 {
		for key := range data {
			visible = append(visible, key)
		}
	}
	sort.Strings(visible)

	pairs := make([]string, 0, len(visible))
	for _, key := range visible {
		pairs = append(pairs, key+": "+flattenValue(data[key], 0))
	}
	return strings.Join(pairs, ", ")
}

// flattenValue renders any nested value as text. The depth guard stops
// cyclic or pathological structures from looping.
func flattenValue(v any, depth int) string {
	if depth > maxFlattenDepth {
		return "[max depth reached]"
	}
	switch val := v.(type) {
	case nil:
		return "null"
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case string:
		return val
	case []any:
		if len(val) == 0 {
			return "[]"
		}
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = flattenValue(item, depth+1)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		if len(val) == 0 {
			return "{}"
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + flattenValue(val[k], depth+1)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}
