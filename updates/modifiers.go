package updates

import "go.mongodb.org/mongo-driver/bson"

// DateType selects the value $currentDate stamps into the field.
type DateType int

const (
	// DateStamp writes a BSON date.
	DateStamp DateType = iota
	// TimestampStamp writes a BSON timestamp.
	TimestampStamp
)

// String returns the $currentDate type name.
func (t DateType) String() string {
	if t == TimestampStamp {
		return "timestamp"
	}
	return "date"
}

// PopStrategy selects which end $pop removes from.
type PopStrategy int

const (
	// PopFirst removes the first element (-1).
	PopFirst PopStrategy = iota
	// PopLast removes the last element (1).
	PopLast
)

func (s PopStrategy) value() int {
	if s == PopLast {
		return 1
	}
	return -1
}

// PushEach describes a $push with the $each modifier. The zero value of
// each modifier field means the corresponding key is omitted; use the
// constructors to set one.
type PushEach struct {
	Values   []any
	Slice    Slice
	Sort     Sort
	Position Position
}

// Slice is the $slice modifier. Encoded per Mongo convention: a positive
// count keeps the first elements, a negative count the last, zero keeps
// none.
type Slice struct {
	n   int
	set bool
}

// SliceFirst keeps the first n elements after the push.
func SliceFirst(n int) Slice { return Slice{n: n, set: true} }

// SliceLast keeps the last n elements after the push.
func SliceLast(n int) Slice { return Slice{n: -n, set: true} }

// SliceNone empties the array after the push ($slice: 0).
func SliceNone() Slice { return Slice{set: true} }

// Sort is the $sort modifier: 1, -1, or a per-field sort document.
type Sort struct {
	v   any
	set bool
}

// SortAscending sorts the array elements ascending.
func SortAscending() Sort { return Sort{v: 1, set: true} }

// SortDescending sorts the array elements descending.
func SortDescending() Sort { return Sort{v: -1, set: true} }

// SortBy sorts array documents by the given specification.
func SortBy(spec bson.D) Sort { return Sort{v: spec, set: true} }

// Position is the $position modifier. Encoded per Mongo convention: a
// non-negative offset counts from the front, a negative one from the back.
type Position struct {
	n   int
	set bool
}

// PositionFront inserts at offset n from the start of the array.
func PositionFront(n int) Position { return Position{n: n, set: true} }

// PositionBack inserts at offset n from the end of the array.
func PositionBack(n int) Position { return Position{n: -n, set: true} }
