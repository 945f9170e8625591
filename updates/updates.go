// Package updates builds MongoDB update documents from schema-checked
// field tokens. Entries are grouped under their update operator ($set,
// $inc, $push, ...) and emitted as one document with a single key per
// operator.
package updates

import (
	"github.com/fieldwise/fieldwise/compat"
	"github.com/fieldwise/fieldwise/schema"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Operator identifies a MongoDB update operator.
type Operator int

const (
	OpSet Operator = iota
	OpUnset
	OpInc
	OpMax
	OpMin
	OpMul
	OpRename
	OpCurrentDate
	OpAddToSet
	OpPop
	OpPull
	OpPullAll
	OpPush
)

// String returns the operator's document key.
func (op Operator) String() string {
	switch op {
	case OpSet:
		return "$set"
	case OpUnset:
		return "$unset"
	case OpInc:
		return "$inc"
	case OpMax:
		return "$max"
	case OpMin:
		return "$min"
	case OpMul:
		return "$mul"
	case OpRename:
		return "$rename"
	case OpCurrentDate:
		return "$currentDate"
	case OpAddToSet:
		return "$addToSet"
	case OpPop:
		return "$pop"
	case OpPull:
		return "$pull"
	case OpPullAll:
		return "$pullAll"
	case OpPush:
		return "$push"
	default:
		return "$unknown"
	}
}

// Builder accumulates update entries for one record type, grouped per
// operator. Operators appear in the final document in first-use order.
//
// Builders are not safe for concurrent use.
type Builder struct {
	rec     *schema.Record
	prefix  []string
	order   []Operator
	entries map[Operator][]bson.E
}

// New returns a fresh builder for rec.
func New(rec *schema.Record) *Builder {
	return &Builder{rec: rec, entries: make(map[Operator][]bson.E)}
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

// checkElement verifies that f is a container field and that v is
// compatible with its element type.
func checkElement(op string, f *schema.Field, path string, v any) {
	if !f.Type().Kind().Elemental() || f.Type().Kind() == schema.KindOptional {
		panic(&schema.MismatchError{
			Op:       op,
			Record:   f.Owner().Name(),
			Field:    f.Name(),
			Path:     path,
			Expected: "a container field",
			Actual:   f.Type().String(),
		})
	}
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
	if !compat.Accepts(f.Type().Elem(), vt) {
		panic(&schema.MismatchError{
			Op:       op,
			Record:   f.Owner().Name(),
			Field:    f.Name(),
			Path:     path,
			Expected: "element type " + f.Type().Elem().String(),
			Actual:   vt.String(),
		})
	}
}

func (b *Builder) record(op Operator, path string, v any) {
	if _, seen := b.entries[op]; !seen {
		b.order = append(b.order, op)
	}
	b.entries[op] = append(b.entries[op], bson.E{Key: path, Value: v})
}

// Set records {$set: {path: value}}.
func (b *Builder) Set(f *schema.Field, v any) *Builder {
	path := b.resolve("updates.Set", f)
	checkValue("updates.Set", f, path, v)
	b.record(OpSet, path, schema.Normalize(v))
	return b
}

// Unset records {$unset: {path: null}}. Mongo ignores the value; null is
// the conventional placeholder.
func (b *Builder) Unset(f *schema.Field) *Builder {
	path := b.resolve("updates.Unset", f)
	b.record(OpUnset, path, primitive.Null{})
	return b
}

// Inc records {$inc: {path: delta}}.
func (b *Builder) Inc(f *schema.Field, delta any) *Builder {
	return b.arith("updates.Inc", OpInc, f, delta)
}

// Max records {$max: {path: value}}.
func (b *Builder) Max(f *schema.Field, v any) *Builder {
	return b.arith("updates.Max", OpMax, f, v)
}

// Min records {$min: {path: value}}.
func (b *Builder) Min(f *schema.Field, v any) *Builder {
	return b.arith("updates.Min", OpMin, f, v)
}

// Mul records {$mul: {path: factor}}.
func (b *Builder) Mul(f *schema.Field, factor any) *Builder {
	return b.arith("updates.Mul", OpMul, f, factor)
}

func (b *Builder) arith(op string, operator Operator, f *schema.Field, v any) *Builder {
	path := b.resolve(op, f)
	checkValue(op, f, path, v)
	b.record(operator, path, schema.Normalize(v))
	return b
}

// Rename records {$rename: {path: newName}}.
func (b *Builder) Rename(f *schema.Field, newName string) *Builder {
	path := b.resolve("updates.Rename", f)
	b.record(OpRename, path, newName)
	return b
}

// CurrentDate records {$currentDate: {path: "date"|"timestamp"}}.
func (b *Builder) CurrentDate(f *schema.Field, t DateType) *Builder {
	path := b.resolve("updates.CurrentDate", f)
	b.record(OpCurrentDate, path, t.String())
	return b
}

// AddToSet records {$addToSet: {path: value}}; value must be compatible
// with the container's element type.
func (b *Builder) AddToSet(f *schema.Field, v any) *Builder {
	path := b.resolve("updates.AddToSet", f)
	checkElement("updates.AddToSet", f, path, v)
	b.record(OpAddToSet, path, schema.Normalize(v))
	return b
}

// AddToSetEach records {$addToSet: {path: {$each: [values...]}}}.
func (b *Builder) AddToSetEach(f *schema.Field, vals ...any) *Builder {
	path := b.resolve("updates.AddToSetEach", f)
	arr := make(bson.A, 0, len(vals))
	for _, v := range vals {
		checkElement("updates.AddToSetEach", f, path, v)
		arr = append(arr, schema.Normalize(v))
	}
	b.record(OpAddToSet, path, bson.D{{Key: "$each", Value: arr}})
	return b
}

// Pop records {$pop: {path: -1|1}}.
func (b *Builder) Pop(f *schema.Field, strategy PopStrategy) *Builder {
	path := b.resolve("updates.Pop", f)
	b.record(OpPop, path, strategy.value())
	return b
}

// Pull records {$pull: {path: value}}; value must be compatible with the
// container's element type.
func (b *Builder) Pull(f *schema.Field, v any) *Builder {
	path := b.resolve("updates.Pull", f)
	checkElement("updates.Pull", f, path, v)
	b.record(OpPull, path, schema.Normalize(v))
	return b
}

// PullExpr records {$pull: {path: condition}} with a raw condition
// document, e.g. {$gte: 10}. The condition is not schema-checked.
func (b *Builder) PullExpr(f *schema.Field, expr bson.D) *Builder {
	path := b.resolve("updates.PullExpr", f)
	b.record(OpPull, path, expr)
	return b
}

// PullAll records {$pullAll: {path: [values...]}}.
func (b *Builder) PullAll(f *schema.Field, vals ...any) *Builder {
	path := b.resolve("updates.PullAll", f)
	arr := make(bson.A, 0, len(vals))
	for _, v := range vals {
		checkElement("updates.PullAll", f, path, v)
		arr = append(arr, schema.Normalize(v))
	}
	b.record(OpPullAll, path, arr)
	return b
}

// Push records {$push: {path: value}}; value must be compatible with the
// container's element type.
func (b *Builder) Push(f *schema.Field, v any) *Builder {
	path := b.resolve("updates.Push", f)
	checkElement("updates.Push", f, path, v)
	b.record(OpPush, path, schema.Normalize(v))
	return b
}

// PushEach records {$push: {path: {$each: [...], ...modifiers}}}. See the
// PushEach type for the modifier encoding; modifiers always render in the
// order $each, $slice, $sort, $position.
func (b *Builder) PushEach(f *schema.Field, spec PushEach) *Builder {
	path := b.resolve("updates.PushEach", f)
	arr := make(bson.A, 0, len(spec.Values))
	for _, v := range spec.Values {
		checkElement("updates.PushEach", f, path, v)
		arr = append(arr, schema.Normalize(v))
	}

	doc := bson.D{{Key: "$each", Value: arr}}
	if spec.Slice.set {
		doc = append(doc, bson.E{Key: "$slice", Value: spec.Slice.n})
	}
	if spec.Sort.set {
		doc = append(doc, bson.E{Key: "$sort", Value: spec.Sort.v})
	}
	if spec.Position.set {
		doc = append(doc, bson.E{Key: "$position", Value: spec.Position.n})
	}
	b.record(OpPush, path, doc)
	return b
}

// Untyped records an arbitrary value under op without any schema check.
// This is the escape hatch for operator shapes the typed methods do not
// cover.
func (b *Builder) Untyped(f *schema.Field, op Operator, v any) *Builder {
	path := b.resolve("updates.Untyped", f)
	b.record(op, path, v)
	return b
}

// WithLookup scopes a nested builder to an embedded record; lookup
// semantics match the filter builder's WithLookup. The nested builder's
// operator groups merge into this builder's, preserving per-operator entry
// order.
func (b *Builder) WithLookup(f *schema.Field, lookup func(schema.Path) schema.Path, fn func(*Builder)) *Builder {
	p := lookup(schema.PrefixedPath(b.prefix, f))
	if p.Root() != b.rec {
		panic(&schema.MismatchError{
			Op:       "updates.WithLookup",
			Record:   b.rec.Name(),
			Field:    f.Name(),
			Path:     p.Render(),
			Expected: "a lookup rooted at record " + b.rec.Name(),
			Actual:   "a lookup rooted at record " + p.Root().Name(),
		})
	}

	nested := New(p.At())
	nested.prefix = p.Prefix()
	fn(nested)
	for _, op := range nested.order {
		for _, e := range nested.entries[op] {
			b.record(op, e.Key, e.Value)
		}
	}
	return b
}

// WithField is WithLookup with the identity lookup.
func (b *Builder) WithField(f *schema.Field, fn func(*Builder)) *Builder {
	return b.WithLookup(f, func(p schema.Path) schema.Path { return p }, fn)
}

// Build finalizes the update document: one top-level key per populated
// operator in first-use order. Within an operator, writing the same path
// more than once keeps the path's first position with the last value.
//
// Build is terminal: it clears the builder's state, and the builder must
// not be reused afterwards. This differs from the filter and projection
// builders, whose output methods borrow.
func (b *Builder) Build() bson.D {
	doc := make(bson.D, 0, len(b.order))
	for _, op := range b.order {
		group := bson.D{}
		for _, e := range b.entries[op] {
			group = upsert(group, e.Key, e.Value)
		}
		doc = append(doc, bson.E{Key: op.String(), Value: group})
	}

	b.order = nil
	b.entries = make(map[Operator][]bson.E)
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
