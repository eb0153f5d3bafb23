package query

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Engine executes pipelines against a Source. It holds no state beyond the
// source reference and is safe for concurrent use.
type Engine struct {
	src Source
}

// NewEngine creates an Engine over the given source.
func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// Run scans the base collection and applies every stage in order, returning
// the shaped result documents. Input documents are never mutated; every stage
// works on copies.
func (e *Engine) Run(ctx context.Context, collection string, p Pipeline) ([]Document, error) {
	base, err := e.src.Scan(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", collection, err)
	}

	docs := make([]Document, len(base))
	for i, d := range base {
		docs[i] = d.clone()
	}

	return e.apply(ctx, docs, p)
}

func (e *Engine) apply(ctx context.Context, docs []Document, p Pipeline) ([]Document, error) {
	var err error
	for _, st := range p {
		switch s := st.(type) {
		case Match:
			docs = applyMatch(docs, s)
		case Lookup:
			docs, err = e.applyLookup(ctx, docs, s)
			if err != nil {
				return nil, err
			}
		case AddFields:
			applyAddFields(docs, s)
		case Project:
			docs = applyProject(docs, s)
		case Unwind:
			docs = applyUnwind(docs, s)
		case Sort:
			applySort(docs, s)
		case Skip:
			if s.N >= len(docs) {
				docs = nil
			} else if s.N > 0 {
				docs = docs[s.N:]
			}
		case Limit:
			if s.N >= 0 && s.N < len(docs) {
				docs = docs[:s.N]
			}
		default:
			return nil, fmt.Errorf("unknown pipeline stage %T", st)
		}
	}
	return docs, nil
}

func applyMatch(docs []Document, m Match) []Document {
	out := docs[:0:0]
	for _, d := range docs {
		if m.matches(d) {
			out = append(out, d)
		}
	}
	return out
}

// applyLookup performs a hash join: one scan of the foreign collection,
// bucketed by foreign key in insertion order, then a probe per local row.
func (e *Engine) applyLookup(ctx context.Context, docs []Document, l Lookup) ([]Document, error) {
	foreign, err := e.src.Scan(ctx, l.From)
	if err != nil {
		return nil, fmt.Errorf("lookup scan %s: %w", l.From, err)
	}

	byKey := make(map[any][]Document, len(foreign))
	for _, f := range foreign {
		k, ok := hashKey(f[l.ForeignField])
		if !ok {
			continue
		}
		byKey[k] = append(byKey[k], f)
	}

	for _, d := range docs {
		var joined []Document
		if k, ok := hashKey(d[l.LocalField]); ok {
			for _, f := range byKey[k] {
				joined = append(joined, f.clone())
			}
		}
		if len(l.Pipeline) > 0 {
			joined, err = e.apply(ctx, joined, l.Pipeline)
			if err != nil {
				return nil, fmt.Errorf("lookup sub-pipeline %s: %w", l.From, err)
			}
		}
		if joined == nil {
			joined = []Document{}
		}
		d[l.As] = joined
	}
	return docs, nil
}

func applyAddFields(docs []Document, af AddFields) {
	for _, d := range docs {
		for field, expr := range af {
			d[field] = expr.eval(d)
		}
	}
}

func applyProject(docs []Document, fields Project) []Document {
	keep := make(map[string]bool, len(fields)+1)
	keep["id"] = true
	for _, f := range fields {
		keep[f] = true
	}
	out := make([]Document, len(docs))
	for i, d := range docs {
		nd := make(Document, len(fields)+1)
		for k, v := range d {
			if keep[k] {
				nd[k] = v
			}
		}
		out[i] = nd
	}
	return out
}

func applyUnwind(docs []Document, u Unwind) []Document {
	var out []Document
	for _, d := range docs {
		elems, ok := d[u.Field].([]Document)
		if !ok || len(elems) == 0 {
			continue
		}
		for _, el := range elems {
			nd := d.clone()
			nd[u.Field] = el
			out = append(out, nd)
		}
	}
	return out
}

func applySort(docs []Document, s Sort) {
	if s.Field == "" {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		less := compare(docs[i][s.Field], docs[j][s.Field]) < 0
		if s.Descending {
			return compare(docs[j][s.Field], docs[i][s.Field]) < 0
		}
		return less
	})
}

// clone copies the document one level deep. Joined slices are copied as
// slices; the engine never mutates documents in place below the top level.
func (d Document) clone() Document {
	nd := make(Document, len(d))
	for k, v := range d {
		if docs, ok := v.([]Document); ok {
			cp := make([]Document, len(docs))
			copy(cp, docs)
			nd[k] = cp
			continue
		}
		nd[k] = v
	}
	return nd
}

// hashKey normalizes a value for join bucketing. Only comparable scalar keys
// participate in joins; anything else (nil, slices) joins nothing.
func hashKey(v any) (any, bool) {
	switch k := v.(type) {
	case nil:
		return nil, false
	case string:
		return k, true
	case int:
		return int64(k), true
	case int64:
		return k, true
	case float64:
		return k, true
	case bool:
		return k, true
	case time.Time:
		return k.UnixNano(), true
	}
	return nil, false
}

// equal compares two scalar values with numeric widening.
func equal(a, b any) bool {
	ka, aok := hashKey(a)
	kb, bok := hashKey(b)
	if !aok || !bok {
		return false
	}
	if ia, ok := ka.(int64); ok {
		if fb, ok := kb.(float64); ok {
			return float64(ia) == fb
		}
	}
	if fa, ok := ka.(float64); ok {
		if ib, ok := kb.(int64); ok {
			return fa == float64(ib)
		}
	}
	return ka == kb
}

// compare orders two values of the same general kind. Nil sorts first,
// then incomparable values keep their relative order (compare == 0).
func compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			switch {
			case av.Before(bv):
				return -1
			case av.After(bv):
				return 1
			}
			return 0
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case !av && bv:
				return -1
			case av && !bv:
				return 1
			}
			return 0
		}
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
	}
	return 0
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
