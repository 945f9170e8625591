package schema

import (
	"fmt"
	"reflect"
	"time"
)

// Typed lets a value declare its own schema type. Values passed to the
// builders may implement it to participate in compatibility checks without
// being one of the directly supported Go types; it is also how record-typed
// values identify themselves.
type Typed interface {
	SchemaType() Type
}

// CharValue marks a single character. Go's rune is an alias of int32, so a
// bare rune literal would type as Int32; wrap it in CharValue to get Char
// semantics.
type CharValue rune

// SchemaType implements Typed.
func (CharValue) SchemaType() Type { return Char() }

// TypeOf maps a Go runtime value onto its schema Type.
//
// Supported directly: bool, int16, int32, int64, int (as Int64), float32,
// float64, string, CharValue, time.Time (as DateTime), and anything
// implementing Typed. Slices map to List of the element type, string-keyed
// maps to Map of the value type, and pointers to Optional of the pointee.
// Untyped nil and unsupported kinds return an error.
func TypeOf(v any) (Type, error) {
	switch x := v.(type) {
	case nil:
		return Type{}, fmt.Errorf("schema: cannot type untyped nil")
	case Typed:
		return x.SchemaType(), nil
	case bool:
		return Bool(), nil
	case int16:
		return Int16(), nil
	case int32:
		return Int32(), nil
	case int64:
		return Int64(), nil
	case int:
		return Int64(), nil
	case float32:
		return Float32(), nil
	case float64:
		return Float64(), nil
	case string:
		return String(), nil
	case time.Time:
		return DateTime(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		elem, err := typeOfStatic(rv.Type().Elem())
		if err != nil {
			return Type{}, fmt.Errorf("schema: slice element: %w", err)
		}
		return ListOf(elem), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Type{}, fmt.Errorf("schema: map keys must be strings, got %s", rv.Type().Key())
		}
		elem, err := typeOfStatic(rv.Type().Elem())
		if err != nil {
			return Type{}, fmt.Errorf("schema: map value: %w", err)
		}
		return MapOf(elem), nil
	case reflect.Pointer:
		elem, err := typeOfStatic(rv.Type().Elem())
		if err != nil {
			return Type{}, fmt.Errorf("schema: pointee: %w", err)
		}
		return OptionalOf(elem), nil
	}

	return Type{}, fmt.Errorf("schema: unsupported value type %T", v)
}

var typedIface = reflect.TypeOf((*Typed)(nil)).Elem()

// typeOfStatic types an element without a value in hand. Interface element
// types cannot be typed statically unless they satisfy Typed.
func typeOfStatic(t reflect.Type) (Type, error) {
	if t.Implements(typedIface) {
		return reflect.Zero(t).Interface().(Typed).SchemaType(), nil
	}
	if t.Kind() == reflect.Interface {
		return Type{}, fmt.Errorf("cannot type interface element %s", t)
	}
	return TypeOf(reflect.Zero(t).Interface())
}

// Normalize converts schema marker values into the representation that
// belongs in an output document. Currently that is CharValue, which renders
// as a one-character string; every other value passes through unchanged.
func Normalize(v any) any {
	if c, ok := v.(CharValue); ok {
		return string(rune(c))
	}
	return v
}
