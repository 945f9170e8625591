package schema

import (
	"fmt"
	"strings"
)

// MismatchError describes a schema misuse caught at construction time: a
// token presented to a builder for the wrong record, a value the
// compatibility rules reject, or an invalid path navigation. Builders panic
// with a *MismatchError the moment the misuse is detected, before any
// clause is produced; these are programming errors, not runtime conditions,
// in the same spirit as regexp.MustCompile rejecting a bad pattern.
type MismatchError struct {
	Op       string // operation that detected the misuse, e.g. "filters.Eq"
	Record   string // record the builder or path is bound to
	Field    string // field identifier involved, if any
	Path     string // rendered path, if one was resolved
	Expected string // what the schema requires
	Actual   string // what the caller supplied
	Reason   string // free-form detail when the types alone don't explain
}

func (e *MismatchError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")

	if e.Reason != "" {
		b.WriteString(e.Reason)
	} else {
		fmt.Fprintf(&b, "expected %s, got %s", e.Expected, e.Actual)
	}

	if e.Record != "" {
		fmt.Fprintf(&b, " (record %s", e.Record)
		if e.Field != "" {
			fmt.Fprintf(&b, ", field %s", e.Field)
		}
		if e.Path != "" {
			fmt.Fprintf(&b, ", path %s", e.Path)
		}
		b.WriteString(")")
	}
	return b.String()
}
