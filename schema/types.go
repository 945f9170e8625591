// Package schema provides the declaration layer for fieldwise: record
// schemas, field tokens, type identities, naming strategies, and the
// dotted-path composer used by the filter, projection, and update builders.
//
// A record schema is declared once (typically in a package-level var or at
// process start) and validated by Build. After that point every field is
// represented by a *Field token whose pointer identity ties it to exactly
// one (record, field) pair, which is what lets the builders reject tokens
// that belong to a different record type before any clause is produced.
package schema

import (
	"fmt"
	"strings"
)

// Kind identifies a declared field type. Kinds are an enumerated set rather
// than strings so that a typo in a type name is a compile error, not a
// silently incompatible table entry.
type Kind int

const (
	KindBool Kind = iota
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindChar
	KindString
	KindDateTime
	KindList
	KindSet
	KindOrderedSet
	KindDeque
	KindPriorityQueue
	KindMap
	KindOptional
	KindRecord
)

// String returns the lowercase name of the kind, matching the type syntax
// accepted by LoadYAML.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindDateTime:
		return "datetime"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindOrderedSet:
		return "ordered_set"
	case KindDeque:
		return "deque"
	case KindPriorityQueue:
		return "priority_queue"
	case KindMap:
		return "map"
	case KindOptional:
		return "optional"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Elemental reports whether the kind carries an element type
// (containers and optionals).
func (k Kind) Elemental() bool {
	switch k {
	case KindList, KindSet, KindOrderedSet, KindDeque, KindPriorityQueue, KindMap, KindOptional:
		return true
	default:
		return false
	}
}

// Type is the declared type of a field: a kind, plus an element type for
// container and optional kinds, plus the record descriptor for record kinds.
// Types are plain values and compare structurally via Equal.
type Type struct {
	kind Kind
	elem *Type
	rec  *Record
}

// Scalar type constructors.

func Bool() Type     { return Type{kind: KindBool} }
func Int16() Type    { return Type{kind: KindInt16} }
func Int32() Type    { return Type{kind: KindInt32} }
func Int64() Type    { return Type{kind: KindInt64} }
func Float32() Type  { return Type{kind: KindFloat32} }
func Float64() Type  { return Type{kind: KindFloat64} }
func Char() Type     { return Type{kind: KindChar} }
func String() Type   { return Type{kind: KindString} }
func DateTime() Type { return Type{kind: KindDateTime} }

// ListOf returns the type of a list whose elements are t.
func ListOf(t Type) Type { return Type{kind: KindList, elem: &t} }

// SetOf returns the type of an unordered set whose elements are t.
func SetOf(t Type) Type { return Type{kind: KindSet, elem: &t} }

// OrderedSetOf returns the type of an ordered set whose elements are t.
func OrderedSetOf(t Type) Type { return Type{kind: KindOrderedSet, elem: &t} }

// DequeOf returns the type of a double-ended queue whose elements are t.
func DequeOf(t Type) Type { return Type{kind: KindDeque, elem: &t} }

// PriorityQueueOf returns the type of a priority queue whose elements are t.
func PriorityQueueOf(t Type) Type { return Type{kind: KindPriorityQueue, elem: &t} }

// MapOf returns the type of a string-keyed map whose values are t.
func MapOf(t Type) Type { return Type{kind: KindMap, elem: &t} }

// OptionalOf returns the type of an optional (nullable) t.
func OptionalOf(t Type) Type { return Type{kind: KindOptional, elem: &t} }

// RecordOf returns the type of an embedded record described by r.
func RecordOf(r *Record) Type { return Type{kind: KindRecord, rec: r} }

// Kind returns the type's kind.
func (t Type) Kind() Kind { return t.kind }

// Elem returns the element type for container and optional kinds.
// It panics for kinds that carry no element type.
func (t Type) Elem() Type {
	if t.elem == nil {
		panic(fmt.Sprintf("schema: %s has no element type", t.kind))
	}
	return *t.elem
}

// Record returns the record descriptor for record kinds, nil otherwise.
func (t Type) Record() *Record { return t.rec }

// Equal reports structural equality. Record types compare by descriptor
// identity, so two records that happen to share a name stay distinct.
func (t Type) Equal(o Type) bool {
	if t.kind != o.kind {
		return false
	}
	if t.kind == KindRecord {
		return t.rec == o.rec
	}
	if t.elem == nil {
		return o.elem == nil
	}
	return o.elem != nil && t.elem.Equal(*o.elem)
}

// String renders the type in the same syntax LoadYAML accepts,
// e.g. "int64", "list<string>", "optional<int16>", "record<Address>".
func (t Type) String() string {
	switch {
	case t.kind == KindRecord:
		name := "?"
		if t.rec != nil {
			name = t.rec.Name()
		}
		return "record<" + name + ">"
	case t.elem != nil:
		var b strings.Builder
		b.WriteString(t.kind.String())
		b.WriteString("<")
		b.WriteString(t.elem.String())
		b.WriteString(">")
		return b.String()
	default:
		return t.kind.String()
	}
}
