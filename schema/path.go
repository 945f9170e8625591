package schema

import "strings"

// Path is a dotted navigation from a root record down to a leaf field.
// Paths are values: Field returns a new Path and never mutates its
// receiver, so a partial navigation can be extended in several directions.
//
// The root record is carried alongside the segments. Builders use it to
// reject lookups that wandered off to a different record type than the one
// the builder was created for.
type Path struct {
	root   *Record
	prefix []string
	leaf   *Field
}

// NewPath starts a path at f: rooted at f's owner, no prefix, leaf f.
func NewPath(f *Field) Path {
	return Path{root: f.Owner(), leaf: f}
}

// PrefixedPath starts a path at f below an already-resolved prefix. The
// root is still f's owner; the prefix is copied. This is the entry point
// the builder packages use so that nested lookups resolve below the
// enclosing builder's position in the document.
func PrefixedPath(prefix []string, f *Field) Path {
	return Path{root: f.Owner(), prefix: cloneSegments(prefix), leaf: f}
}

// Field extends the path into an embedded record: the current leaf must be
// record-typed and g must be a token of that record. The current leaf's
// external name becomes a prefix segment and g the new leaf. The receiver
// is left unchanged. Violations panic with a *MismatchError; they are
// programming errors in the navigation itself.
func (p Path) Field(g *Field) Path {
	leafType := p.leaf.Type()
	if leafType.Kind() != KindRecord {
		panic(&MismatchError{
			Op:       "schema.Path.Field",
			Record:   p.root.Name(),
			Field:    p.leaf.Name(),
			Path:     p.Render(),
			Expected: "a record-typed field to navigate into",
			Actual:   leafType.String(),
		})
	}
	if g.Owner() != leafType.Record() {
		panic(&MismatchError{
			Op:       "schema.Path.Field",
			Record:   p.root.Name(),
			Field:    g.Name(),
			Path:     p.Render(),
			Expected: "a field of record " + leafType.Record().Name(),
			Actual:   "a field of record " + g.Owner().Name(),
		})
	}

	prefix := make([]string, 0, len(p.prefix)+1)
	prefix = append(prefix, p.prefix...)
	prefix = append(prefix, p.leaf.ExternalName())
	return Path{root: p.root, prefix: prefix, leaf: g}
}

// Render joins the prefix segments and the leaf's external name with dots.
func (p Path) Render() string {
	if len(p.prefix) == 0 {
		return p.leaf.ExternalName()
	}
	return strings.Join(p.prefix, ".") + "." + p.leaf.ExternalName()
}

// Root returns the record the path started from.
func (p Path) Root() *Record { return p.root }

// At returns the record that owns the current leaf.
func (p Path) At() *Record { return p.leaf.Owner() }

// Leaf returns the current leaf token.
func (p Path) Leaf() *Field { return p.leaf }

// Prefix returns a copy of the prefix segments.
func (p Path) Prefix() []string { return cloneSegments(p.prefix) }

func cloneSegments(segments []string) []string {
	if len(segments) == 0 {
		return nil
	}
	out := make([]string, len(segments))
	copy(out, segments)
	return out
}
