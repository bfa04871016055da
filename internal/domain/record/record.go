// Package record defines the ephemeral query result rows handed to the
// context formatter.
package record

// Count payload keys. Count-shaped records carry these instead of entity
// fields.
const (
	CountKey = "count"
	TypeKey  = "type"
	TableKey = "table"
)

// Record is one retrieved row (or count) from a data source. Relevance is
// a fixed placeholder for relational hits: ranking only applies to
// embedding similarity search, which produces its own result type.
type Record struct {
	Table     string
	ID        int64
	Data      map[string]any
	Relevance float64
}

// NewRow creates an entity-shaped record.
func NewRow(table string, id int64, data map[string]any) Record {
	return Record{Table: table, ID: id, Data: data, Relevance: 1.0}
}

// NewCount creates a count-shaped record. countType labels what was
// counted (a status filter value, or "total").
func NewCount(table string, count int64, countType string) Record {
	if countType == "" {
		countType = "total"
	}
	return Record{
		Table: table,
		Data: map[string]any{
			CountKey: count,
			TypeKey:  countType,
			TableKey: table,
		},
		Relevance: 1.0,
	}
}

// IsCount reports whether the record is count-shaped.
func (r Record) IsCount() bool {
	_, ok := r.Data[CountKey]
	return ok
}
