// Package filters builds MongoDB filter documents from schema-checked
// field tokens. Every typed operation resolves the field's dotted path,
// consults the compatibility oracle for the supplied value, and only then
// appends a clause; misuse panics with a *schema.MismatchError before any
// clause is produced.
package filters

import (
	"github.com/fieldwise/fieldwise/compat"
	"github.com/fieldwise/fieldwise/schema"
	"go.mongodb.org/mongo-driver/bson"
)

// Builder accumulates filter clauses for one record type. Clauses are kept
// in insertion order and never collapsed, so repeated conditions on the
// same path all survive into the combined document.
//
// Builders are not safe for concurrent use.
type Builder struct {
	rec     *schema.Record
	prefix  []string
	clauses []bson.D
}

// New returns a fresh builder for rec with no prefix and no clauses.
func New(rec *schema.Record) *Builder {
	return &Builder{rec: rec}
}

// resolve checks token ownership and renders the field's full path below
// the builder's prefix.
func (b *Builder) resolve(op string, f *schema.Field) string {
	if f.Owner() != b.rec {
		panic(&schema.MismatchError{
			Op:       op,
			Record:   b.rec.Name(),
			Field:    f.Name(),
			Expected: "a field token of record " + b.rec.Name(),
			Actual:   "a field token of record " + f.Owner().Name(),
		})
	}
	return schema.PrefixedPath(b.prefix, f).Render()
}

// checkValue consults the oracle for v against f's declared type.
func checkValue(op string, f *schema.Field, path string, v any) {
	vt, err := schema.TypeOf(v)
	if err != nil {
		panic(&schema.MismatchError{
			Op:     op,
			Record: f.Owner().Name(),
			Field:  f.Name(),
			Path:   path,
			Reason: err.Error(),
		})
	}
	if !compat.Accepts(f.Type(), vt) {
		panic(&schema.MismatchError{
			Op:       op,
			Record:   f.Owner().Name(),
			Field:    f.Name(),
			Path:     path,
			Expected: f.Type().String(),
			Actual:   vt.String(),
		})
	}
}

// Eq appends a bare equality clause, {path: value}. Mongo treats the bare
// form and {$eq: value} identically; the bare form is emitted because it is
// the conventional shape.
func (b *Builder) Eq(f *schema.Field, v any) *Builder {
	path := b.resolve("filters.Eq", f)
	checkValue("filters.Eq", f, path, v)
	b.clauses = append(b.clauses, bson.D{{Key: path, Value: schema.Normalize(v)}})
	return b
}

// Ne appends {path: {$ne: value}}.
func (b *Builder) Ne(f *schema.Field, v any) *Builder { return b.compare("filters.Ne", "$ne", f, v) }

// Gt appends {path: {$gt: value}}.
func (b *Builder) Gt(f *schema.Field, v any) *Builder { return b.compare("filters.Gt", "$gt", f, v) }

// Gte appends {path: {$gte: value}}.
func (b *Builder) Gte(f *schema.Field, v any) *Builder { return b.compare("filters.Gte", "$gte", f, v) }

// Lt appends {path: {$lt: value}}.
func (b *Builder) Lt(f *schema.Field, v any) *Builder { return b.compare("filters.Lt", "$lt", f, v) }

// Lte appends {path: {$lte: value}}.
func (b *Builder) Lte(f *schema.Field, v any) *Builder { return b.compare("filters.Lte", "$lte", f, v) }

func (b *Builder) compare(op, mongoOp string, f *schema.Field, v any) *Builder {
	path := b.resolve(op, f)
	checkValue(op, f, path, v)
	b.clauses = append(b.clauses, bson.D{
		{Key: path, Value: bson.D{{Key: mongoOp, Value: schema.Normalize(v)}}},
	})
	return b
}

// In appends {path: {$in: [values...]}}. Each element is checked against
// the oracle independently.
func (b *Builder) In(f *schema.Field, vals ...any) *Builder {
	return b.membership("filters.In", "$in", f, vals)
}

// Nin appends {path: {$nin: [values...]}}.
func (b *Builder) Nin(f *schema.Field, vals ...any) *Builder {
	return b.membership("filters.Nin", "$nin", f, vals)
}

func (b *Builder) membership(op, mongoOp string, f *schema.Field, vals []any) *Builder {
	path := b.resolve(op, f)
	arr := make(bson.A, 0, len(vals))
	for _, v := range vals {
		checkValue(op, f, path, v)
		arr = append(arr, schema.Normalize(v))
	}
	b.clauses = append(b.clauses, bson.D{
		{Key: path, Value: bson.D{{Key: mongoOp, Value: arr}}},
	})
	return b
}

// Exists appends {path: {$exists: exists}}. Existence is a structural
// predicate, so no value check applies.
func (b *Builder) Exists(f *schema.Field, exists bool) *Builder {
	path := b.resolve("filters.Exists", f)
	b.clauses = append(b.clauses, bson.D{
		{Key: path, Value: bson.D{{Key: "$exists", Value: exists}}},
	})
	return b
}

// Regex appends {path: {$regex: pattern}} with $options when opts is
// non-empty. The field must be string-typed.
func (b *Builder) Regex(f *schema.Field, pattern, opts string) *Builder {
	path := b.resolve("filters.Regex", f)
	if f.Type().Kind() != schema.KindString {
		panic(&schema.MismatchError{
			Op:       "filters.Regex",
			Record:   b.rec.Name(),
			Field:    f.Name(),
			Path:     path,
			Expected: "string",
			Actual:   f.Type().String(),
		})
	}
	clause := bson.D{{Key: "$regex", Value: pattern}}
	if opts != "" {
		clause = append(clause, bson.E{Key: "$options", Value: opts})
	}
	b.clauses = append(b.clauses, bson.D{{Key: path, Value: clause}})
	return b
}

// Raw appends clause verbatim, bypassing path resolution and value checks.
func (b *Builder) Raw(clause bson.D) *Builder {
	b.clauses = append(b.clauses, clause)
	return b
}

// Clauses returns a copy of the accumulated clauses in insertion order.
func (b *Builder) Clauses() []bson.D {
	out := make([]bson.D, len(b.clauses))
	copy(out, b.clauses)
	return out
}

// Not appends a negated per-field condition. fn accumulates operators on a
// FieldOps whose values are checked against f's type; the combined operator
// document is wrapped as
//
//	{path: {$not: {leaf: operators}}}
//
// where leaf is f's external name. Note the leaf segment appears both at
// the end of path and again inside $not; this doubled shape is kept for
// compatibility with existing consumers. No operators yields
// {path: {$not: {}}}.
func (b *Builder) Not(f *schema.Field, fn func(*FieldOps)) *Builder {
	path := b.resolve("filters.Not", f)
	ops := &FieldOps{field: f, path: path}
	fn(ops)

	inner := bson.D{}
	if len(ops.doc) > 0 {
		inner = bson.D{{Key: f.ExternalName(), Value: ops.doc}}
	}
	b.clauses = append(b.clauses, bson.D{
		{Key: path, Value: bson.D{{Key: "$not", Value: inner}}},
	})
	return b
}

// Or runs fn once per item against a single isolated builder that is
// cleared between items, then appends one {$or: [...]} clause containing
// every produced clause flattened in input order. Items that produce no
// clauses contribute nothing; an empty items slice still appends
// {$or: []}.
//
// Or is a package function because methods cannot carry type parameters.
func Or[E any](b *Builder, items []E, fn func(*Builder, E)) *Builder {
	arr := bson.A{}
	nested := &Builder{rec: b.rec}
	for _, item := range items {
		nested.clauses = nil
		fn(nested, item)
		for _, c := range nested.clauses {
			arr = append(arr, c)
		}
	}
	b.clauses = append(b.clauses, bson.D{{Key: "$or", Value: arr}})
	return b
}

// WithLookup scopes a nested builder to an embedded record. The lookup
// receives a path rooted at f below the builder's current prefix and may
// navigate further with Path.Field; the resolved path must still be rooted
// at the builder's record. fn then runs against a nested builder bound to
// the record owning the resolved leaf, prefixed with the resolved path's
// prefix, and every clause it produces is spliced into this builder in
// order.
func (b *Builder) WithLookup(f *schema.Field, lookup func(schema.Path) schema.Path, fn func(*Builder)) *Builder {
	p := lookup(schema.PrefixedPath(b.prefix, f))
	if p.Root() != b.rec {
		panic(&schema.MismatchError{
			Op:       "filters.WithLookup",
			Record:   b.rec.Name(),
			Field:    f.Name(),
			Path:     p.Render(),
			Expected: "a lookup rooted at record " + b.rec.Name(),
			Actual:   "a lookup rooted at record " + p.Root().Name(),
		})
	}

	nested := &Builder{rec: p.At(), prefix: p.Prefix()}
	fn(nested)
	b.clauses = append(b.clauses, nested.clauses...)
	return b
}

// WithField is WithLookup with the identity lookup: the nested builder
// shares this builder's record and prefix.
func (b *Builder) WithField(f *schema.Field, fn func(*Builder)) *Builder {
	return b.WithLookup(f, func(p schema.Path) schema.Path { return p }, fn)
}

// And combines the accumulated clauses into one filter document: no
// clauses produce an empty document, a single clause is returned verbatim,
// and two or more are wrapped in {$and: [...]} in insertion order. The
// single-clause unwrapping is part of the contract, not an optimization.
//
// And borrows; the builder keeps its clauses and may keep accumulating.
func (b *Builder) And() bson.D {
	switch len(b.clauses) {
	case 0:
		return bson.D{}
	case 1:
		return b.clauses[0]
	default:
		arr := make(bson.A, 0, len(b.clauses))
		for _, c := range b.clauses {
			arr = append(arr, c)
		}
		return bson.D{{Key: "$and", Value: arr}}
	}
}
