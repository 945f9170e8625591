package filters

import (
	"github.com/fieldwise/fieldwise/schema"
	"go.mongodb.org/mongo-driver/bson"
)

// FieldOps accumulates comparison operators against a single field inside
// Builder.Not. Each value goes through the same compatibility check as the
// top-level filter operations. Writing the same operator twice keeps the
// operator at its first position with the last value.
type FieldOps struct {
	field *schema.Field
	path  string
	doc   bson.D
}

// Eq records {$eq: value}.
func (o *FieldOps) Eq(v any) *FieldOps { return o.set("filters.FieldOps.Eq", "$eq", v) }

// Ne records {$ne: value}.
func (o *FieldOps) Ne(v any) *FieldOps { return o.set("filters.FieldOps.Ne", "$ne", v) }

// Gt records {$gt: value}.
func (o *FieldOps) Gt(v any) *FieldOps { return o.set("filters.FieldOps.Gt", "$gt", v) }

// Gte records {$gte: value}.
func (o *FieldOps) Gte(v any) *FieldOps { return o.set("filters.FieldOps.Gte", "$gte", v) }

// Lt records {$lt: value}.
func (o *FieldOps) Lt(v any) *FieldOps { return o.set("filters.FieldOps.Lt", "$lt", v) }

// Lte records {$lte: value}.
func (o *FieldOps) Lte(v any) *FieldOps { return o.set("filters.FieldOps.Lte", "$lte", v) }

func (o *FieldOps) set(op, mongoOp string, v any) *FieldOps {
	checkValue(op, o.field, o.path, v)
	o.doc = upsert(o.doc, mongoOp, schema.Normalize(v))
	return o
}

// In records {$in: [values...]}, each element checked independently.
func (o *FieldOps) In(vals ...any) *FieldOps { return o.membership("filters.FieldOps.In", "$in", vals) }

// Nin records {$nin: [values...]}.
func (o *FieldOps) Nin(vals ...any) *FieldOps {
	return o.membership("filters.FieldOps.Nin", "$nin", vals)
}

func (o *FieldOps) membership(op, mongoOp string, vals []any) *FieldOps {
	arr := make(bson.A, 0, len(vals))
	for _, v := range vals {
		checkValue(op, o.field, o.path, v)
		arr = append(arr, schema.Normalize(v))
	}
	o.doc = upsert(o.doc, mongoOp, arr)
	return o
}

// Exists records {$exists: exists}; no value check applies.
func (o *FieldOps) Exists(exists bool) *FieldOps {
	o.doc = upsert(o.doc, "$exists", exists)
	return o
}

// upsert overwrites the value for key if present, keeping its original
// position, and appends otherwise.
func upsert(d bson.D, key string, v any) bson.D {
	for i := range d {
		if d[i].Key == key {
			d[i].Value = v
			return d
		}
	}
	return append(d, bson.E{Key: key, Value: v})
}
