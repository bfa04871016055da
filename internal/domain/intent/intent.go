// Package intent models the structured classification of a natural
// language question into a query shape.
package intent

// Kind is the query shape extracted from a question.
type Kind string

const (
	// Count asks for a quantity only.
	Count Kind = "count"
	// List asks for multiple records.
	List Kind = "list"
	// Detail asks for a single specific record.
	Detail Kind = "detail"
	// Aggregate asks for a calculation over records.
	Aggregate Kind = "aggregate"
)

// IsValid reports whether the kind is one of the known shapes.
func (k Kind) IsValid() bool {
	switch k {
	case Count, List, Detail, Aggregate:
		return true
	}
	return false
}

// Intent is the per-question classification result. It is built, consumed
// by the executor, and discarded; never persisted.
type Intent struct {
	kind     Kind
	entities []string
	filters  map[string]any
	fields   []string
}

// New creates an Intent. An unknown kind degrades to List rather than
// failing: classification must never throw to the caller.
func New(kind Kind, entities []string, filters map[string]any, fields []string) Intent {
	if !kind.IsValid() {
		kind = List
	}
	if filters == nil {
		filters = map[string]any{}
	}
	return Intent{kind: kind, entities: entities, filters: filters, fields: fields}
}

// Kind returns the query shape.
func (i Intent) Kind() Kind { return i.kind }

// Entities returns the candidate source names. Empty means "all sources".
func (i Intent) Entities() []string { return i.entities }

// Filters returns the extracted filter map. Values may be scalars or
// slices (set membership).
func (i Intent) Filters() map[string]any { return i.filters }

// Fields returns the explicitly requested fields, if any.
func (i Intent) Fields() []string { return i.fields }

// StatusFilter returns the "status" filter as a string, if present.
// Count results label themselves with it.
func (i Intent) StatusFilter() (string, bool) {
	v, ok := i.filters["status"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
