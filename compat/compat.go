// Package compat is the type compatibility oracle: it decides which value
// types may be compared against or assigned to a field of a given declared
// type. The rules are fixed and deliberately directional; nothing is
// symmetric unless listed.
package compat

import "github.com/fieldwise/fieldwise/schema"

// Accepts reports whether a value of type value may be used against a field
// declared as field.
//
// Every type accepts itself. Beyond that: Int32 accepts Int16; Int64
// accepts Int16 and Int32; Float64 accepts the narrower integer and float
// types; String accepts Char; DateTime accepts Int64 (milliseconds, one
// direction only). Container fields accept bare values of exactly their
// element type. Optional(T) accepts Optional(T), bare T, and everything T
// accepts, both bare and wrapped in Optional.
func Accepts(field, value schema.Type) bool {
	if field.Equal(value) {
		return true
	}

	switch field.Kind() {
	case schema.KindInt32:
		return value.Kind() == schema.KindInt16
	case schema.KindInt64:
		return value.Kind() == schema.KindInt16 || value.Kind() == schema.KindInt32
	case schema.KindFloat64:
		switch value.Kind() {
		case schema.KindInt16, schema.KindInt32, schema.KindInt64, schema.KindFloat32:
			return true
		}
		return false
	case schema.KindString:
		return value.Kind() == schema.KindChar
	case schema.KindDateTime:
		return value.Kind() == schema.KindInt64
	case schema.KindList, schema.KindSet, schema.KindOrderedSet,
		schema.KindDeque, schema.KindPriorityQueue, schema.KindMap:
		// Bare element values only; no widening through the element type.
		return value.Equal(field.Elem())
	case schema.KindOptional:
		elem := field.Elem()
		if value.Kind() == schema.KindOptional {
			return Accepts(elem, value.Elem())
		}
		return Accepts(elem, value)
	}
	return false
}

// CompatibleTypes returns every type a field declared as field accepts,
// starting with the field's own type. The set follows the same rules as
// Accepts, including the transitive expansion through Optional wrappers.
func CompatibleTypes(field schema.Type) []schema.Type {
	set := []schema.Type{field}

	switch field.Kind() {
	case schema.KindInt32:
		set = appendUnique(set, schema.Int16())
	case schema.KindInt64:
		set = appendUnique(set, schema.Int16(), schema.Int32())
	case schema.KindFloat64:
		set = appendUnique(set, schema.Int16(), schema.Int32(), schema.Int64(), schema.Float32())
	case schema.KindString:
		set = appendUnique(set, schema.Char())
	case schema.KindDateTime:
		set = appendUnique(set, schema.Int64())
	case schema.KindList, schema.KindSet, schema.KindOrderedSet,
		schema.KindDeque, schema.KindPriorityQueue, schema.KindMap:
		set = appendUnique(set, field.Elem())
	case schema.KindOptional:
		for _, t := range CompatibleTypes(field.Elem()) {
			set = appendUnique(set, t, schema.OptionalOf(t))
		}
	}
	return set
}

func appendUnique(set []schema.Type, types ...schema.Type) []schema.Type {
	for _, t := range types {
		seen := false
		for _, s := range set {
			if s.Equal(t) {
				seen = true
				break
			}
		}
		if !seen {
			set = append(set, t)
		}
	}
	return set
}
