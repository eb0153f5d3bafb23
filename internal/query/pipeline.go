// Package query implements the join/aggregation engine: declarative pipelines
// of typed stages (Match, Lookup, AddFields, Project, Unwind, Sort, Skip,
// Limit) executed against any Source offering collection scans. It is the
// single place where normalized collections are combined into response-shaped
// documents; nothing in the system materializes joined views.
package query

import (
	"context"
	"strings"
)

// Document is one record flowing through a pipeline. Values are plain Go
// scalars (string, int64, float64, bool, time.Time) or nested []Document
// produced by Lookup.
type Document map[string]any

// Source provides collection scans in insertion (creation) order.
// Scans in creation order give pipelines their documented default ordering.
type Source interface {
	Scan(ctx context.Context, collection string) ([]Document, error)
}

// Stage is one step of a Pipeline.
type Stage interface {
	stage()
}

// Pipeline is an ordered list of stages.
type Pipeline []Stage

// ===========================================
// Match
// ===========================================

// Op is a match comparison operator.
type Op int

const (
	// OpEq matches when the field equals the value.
	OpEq Op = iota

	// OpContainsFold matches when the string field contains the value,
	// case-insensitively. Used for free-text search.
	OpContainsFold
)

// Cond is a single field condition.
type Cond struct {
	Field string
	Op    Op
	Value any
}

// Match filters documents. All conditions are ANDed; Any conditions are ORed
// together and then ANDed with All. An empty Match passes everything.
type Match struct {
	All []Cond
	Any []Cond
}

func (Match) stage() {}

func (m Match) matches(doc Document) bool {
	for _, c := range m.All {
		if !c.matches(doc) {
			return false
		}
	}
	if len(m.Any) == 0 {
		return true
	}
	for _, c := range m.Any {
		if c.matches(doc) {
			return true
		}
	}
	return false
}

func (c Cond) matches(doc Document) bool {
	v, ok := doc[c.Field]
	switch c.Op {
	case OpEq:
		return ok && equal(v, c.Value)
	case OpContainsFold:
		if !ok {
			return false
		}
		s, sok := v.(string)
		want, wok := c.Value.(string)
		if !sok || !wok {
			return false
		}
		return strings.Contains(strings.ToLower(s), strings.ToLower(want))
	}
	return false
}

// ===========================================
// Lookup
// ===========================================

// Lookup joins documents from another collection. For each input document it
// collects the foreign documents whose ForeignField equals the LocalField
// value, runs the optional sub-pipeline over them, and stores the result
// under As. The join is left-outer: documents with zero matches survive with
// an empty array (reduce with First, or drop them explicitly with Unwind).
type Lookup struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
	Pipeline     Pipeline
}

func (Lookup) stage() {}

// ===========================================
// AddFields
// ===========================================

// Expr computes a derived field value from a document.
type Expr interface {
	eval(doc Document) any
}

// AddFields sets each named field to its expression's value.
type AddFields map[string]Expr

func (AddFields) stage() {}

// First reduces a multi-valued join field to its first matching document in
// insertion order, or nil when the join set is empty. This is the
// left-outer-join-then-pick-first reduction used for single related entities
// (video owner, comment owner).
type First struct {
	Field string
}

func (e First) eval(doc Document) any {
	if docs, ok := doc[e.Field].([]Document); ok && len(docs) > 0 {
		return docs[0]
	}
	return nil
}

// Size evaluates to the cardinality of a joined set. Counts (likes, comments,
// subscribers) are always computed this way, never read from a stored number.
type Size struct {
	Field string
}

func (e Size) eval(doc Document) any {
	if docs, ok := doc[e.Field].([]Document); ok {
		return int64(len(docs))
	}
	return int64(0)
}

// Inc evaluates to the numeric field plus By. Missing fields count as zero.
type Inc struct {
	Field string
	By    int64
}

func (e Inc) eval(doc Document) any {
	return asInt64(doc[e.Field]) + e.By
}

// ===========================================
// Shaping and pagination stages
// ===========================================

// Project keeps only the listed fields. The "id" field is always kept.
type Project []string

func (Project) stage() {}

// Unwind replaces each document with one copy per element of the named joined
// field. Documents whose join set is empty are dropped - this is the one
// place a zero-match row does not survive.
type Unwind struct {
	Field string
}

func (Unwind) stage() {}

// Sort orders documents by a single field. The sort is stable, so equal keys
// keep their insertion order. A zero Sort (empty Field) leaves the stable
// default order untouched.
type Sort struct {
	Field      string
	Descending bool
}

func (Sort) stage() {}

// SortByToken builds a Sort from a field name and a direction token:
// "desc" means descending, anything else ascending.
func SortByToken(field, direction string) Sort {
	return Sort{Field: field, Descending: direction == "desc"}
}

// Skip drops the first N documents.
type Skip struct {
	N int
}

func (Skip) stage() {}

// Limit keeps at most the first N documents.
type Limit struct {
	N int
}

func (Limit) stage() {}
