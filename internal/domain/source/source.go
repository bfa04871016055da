// Package source defines the declarative data source catalog entries the
// retrieval pipeline operates on.
package source

import (
	"fmt"
	"regexp"
	"strings"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Relation declares how a dotted field path joins to a related table.
// The executor joins each declared relation at most once.
type Relation struct {
	Table    string
	LocalKey string
	RefKey   string
}

// Source is a declarative catalog entry for one retrievable entity
// (immutable value object). Misconfigured descriptors are a deploy-time
// bug, not a runtime error: fields are trusted, not checked against the
// live schema.
type Source struct {
	name        string
	entity      string
	table       string
	fields      []string
	queryable   []string
	relations   map[string]Relation
	description string
}

// New validates and creates a Source.
func New(
	name, entity, table string,
	fields, queryable []string,
	relations map[string]Relation,
	description string,
) (Source, error) {
	if name == "" {
		return Source{}, fmt.Errorf("source name is required")
	}
	if !nameRegex.MatchString(name) {
		return Source{}, fmt.Errorf("source name must be alphanumeric with underscores and hyphens")
	}
	if table == "" {
		return Source{}, fmt.Errorf("source %s: table is required", name)
	}
	if len(fields) == 0 {
		return Source{}, fmt.Errorf("source %s: at least one field is required", name)
	}
	return Source{
		name:        name,
		entity:      entity,
		table:       table,
		fields:      fields,
		queryable:   queryable,
		relations:   relations,
		description: description,
	}, nil
}

// Name returns the catalog name used by intents to reference this source.
func (s Source) Name() string { return s.name }

// Entity returns the logical entity identifier.
func (s Source) Entity() string { return s.entity }

// Table returns the backing table name.
func (s Source) Table() string { return s.table }

// Fields returns the retrievable fields, including dotted relation paths.
func (s Source) Fields() []string { return s.fields }

// QueryableFields returns the fields permitted as filter targets.
func (s Source) QueryableFields() []string { return s.queryable }

// Description returns the free-text description shown to the classifier.
func (s Source) Description() string { return s.description }

// IsQueryable reports whether a filter key is on the whitelist. Filters
// on any other field must be dropped, never passed through.
func (s Source) IsQueryable(field string) bool {
	for _, q := range s.queryable {
		if q == field {
			return true
		}
	}
	return false
}

// Relation looks up join metadata for a relation name.
func (s Source) Relation(name string) (Relation, bool) {
	r, ok := s.relations[name]
	return r, ok
}

// SplitFieldPath splits a field into its relation prefix and column. A
// plain field returns an empty relation. Deeper paths keep everything
// after the first dot as the column ("issuedAsset.asset.assetName" ->
// relation "issuedAsset", column "asset.assetName"); the executor only
// resolves one join level and selects the remainder verbatim.
func SplitFieldPath(field string) (relation, column string) {
	rel, col, found := strings.Cut(field, ".")
	if !found {
		return "", field
	}
	return rel, col
}
