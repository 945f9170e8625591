// Package projection builds MongoDB projection documents from
// schema-checked field tokens.
package projection

import (
	"github.com/fieldwise/fieldwise/schema"
	"go.mongodb.org/mongo-driver/bson"
)

// Builder accumulates projection entries for one record type. Entries are
// ordered (path, expression) pairs; Build collapses them into a single
// document.
//
// Builders are not safe for concurrent use.
type Builder struct {
	rec     *schema.Record
	prefix  []string
	entries []bson.E
}

// New returns a fresh builder for rec.
func New(rec *schema.Record) *Builder {
	return &Builder{rec: rec}
}

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

// Include marks f for inclusion, {path: 1}.
func (b *Builder) Include(f *schema.Field) *Builder {
	path := b.resolve("projection.Include", f)
	b.entries = append(b.entries, bson.E{Key: path, Value: 1})
	return b
}

// Exclude marks f for exclusion, {path: 0}.
func (b *Builder) Exclude(f *schema.Field) *Builder {
	path := b.resolve("projection.Exclude", f)
	b.entries = append(b.entries, bson.E{Key: path, Value: 0})
	return b
}

// Project records an arbitrary projection expression for a raw path,
// bypassing the schema. This is the escape hatch for computed projections
// such as {$slice: n} or aggregation expressions.
func (b *Builder) Project(path string, expr any) *Builder {
	b.entries = append(b.entries, bson.E{Key: path, Value: expr})
	return b
}

// WithLookup scopes a nested builder to an embedded record; the lookup and
// splice behavior match the filter builder's WithLookup.
func (b *Builder) WithLookup(f *schema.Field, lookup func(schema.Path) schema.Path, fn func(*Builder)) *Builder {
	p := lookup(schema.PrefixedPath(b.prefix, f))
	if p.Root() != b.rec {
		panic(&schema.MismatchError{
			Op:       "projection.WithLookup",
			Record:   b.rec.Name(),
			Field:    f.Name(),
			Path:     p.Render(),
			Expected: "a lookup rooted at record " + b.rec.Name(),
			Actual:   "a lookup rooted at record " + p.Root().Name(),
		})
	}

	nested := &Builder{rec: p.At(), prefix: p.Prefix()}
	fn(nested)
	b.entries = append(b.entries, nested.entries...)
	return b
}

// WithField is WithLookup with the identity lookup.
func (b *Builder) WithField(f *schema.Field, fn func(*Builder)) *Builder {
	return b.WithLookup(f, func(p schema.Path) schema.Path { return p }, fn)
}

// Build collapses the entries into one projection document. When a path
// was written more than once the LAST expression wins but the path keeps
// its FIRST position. This differs from the filter builder, which never
// collapses clauses; a projection document has one slot per path, so later
// writes are treated as corrections.
//
// Build borrows; the builder keeps its entries and may keep accumulating.
func (b *Builder) Build() bson.D {
	doc := bson.D{}
	for _, e := range b.entries {
		doc = upsert(doc, e.Key, e.Value)
	}
	return doc
}

func upsert(d bson.D, key string, v any) bson.D {
	for i := range d {
		if d[i].Key == key {
			d[i].Value = v
			return d
		}
	}
	return append(d, bson.E{Key: key, Value: v})
}
