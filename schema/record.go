package schema

import (
	"fmt"

	"github.com/fieldwise/fieldwise/internal/suggest"
)

// Field is the token for one declared field of one record. Tokens are
// handed out by Record.Token and Record.Fields and compared by pointer, so
// two records that both declare a field named "id" produce distinct tokens.
type Field struct {
	owner    *Record
	name     string
	external string
	typ      Type
	private  bool
}

// Name returns the declared identifier.
func (f *Field) Name() string { return f.name }

// ExternalName returns the name the field carries in documents, after the
// record's naming strategy or a per-field rename.
func (f *Field) ExternalName() string { return f.external }

// Type returns the declared type.
func (f *Field) Type() Type { return f.typ }

// Owner returns the record the token belongs to.
func (f *Field) Owner() *Record { return f.owner }

// Private reports whether the field was declared with PrivateField.
func (f *Field) Private() bool { return f.private }

func (f *Field) String() string {
	return fmt.Sprintf("%s.%s (%s)", f.owner.name, f.name, f.typ)
}

// Record is a validated schema for one document shape. Records are
// immutable after Build and safe for concurrent use.
type Record struct {
	name    string
	fields  []*Field
	byIdent map[string]*Field
}

// Name returns the record's declared name.
func (r *Record) Name() string { return r.name }

// Fields returns the retained fields in declaration order. The returned
// slice is a copy; the *Field pointers are the canonical tokens.
func (r *Record) Fields() []*Field {
	out := make([]*Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Token returns the token for the field declared as ident. Unknown
// identifiers produce an error with "did you mean" suggestions. Repeated
// calls return the identical pointer.
func (r *Record) Token(ident string) (*Field, error) {
	if f, ok := r.byIdent[ident]; ok {
		return f, nil
	}

	known := make([]string, 0, len(r.fields))
	for _, f := range r.fields {
		known = append(known, f.name)
	}
	return nil, fmt.Errorf("record %s: %s", r.name, suggest.Describe("field", ident, known))
}

// MustToken is like Token but panics on unknown identifiers. It is intended
// for package-level token variables next to the record declaration.
func (r *Record) MustToken(ident string) *Field {
	f, err := r.Token(ident)
	if err != nil {
		panic(err)
	}
	return f
}

// Option configures a RecordBuilder.
type Option func(*RecordBuilder)

// WithFieldNaming sets the strategy that derives external names from
// declared identifiers. The default is AsDeclared.
func WithFieldNaming(s NamingStrategy) Option {
	return func(rb *RecordBuilder) { rb.strategy = s }
}

// WithPrivateFields retains fields declared with PrivateField. Without it
// private declarations are accepted and dropped. The switch is evaluated
// once per record.
func WithPrivateFields() Option {
	return func(rb *RecordBuilder) { rb.includePrivate = true }
}

// RecordBuilder accumulates field declarations for one record. Declaration
// methods chain; Build runs the validation pass and produces the Record.
type RecordBuilder struct {
	name           string
	strategy       NamingStrategy
	includePrivate bool
	decls          []fieldDecl
}

type fieldDecl struct {
	ident   string
	rename  string // per-field override, empty when the strategy applies
	typ     Type
	private bool
}

// NewRecord starts a record declaration.
func NewRecord(name string, opts ...Option) *RecordBuilder {
	rb := &RecordBuilder{name: name}
	for _, opt := range opts {
		opt(rb)
	}
	return rb
}

// Field declares a field whose external name follows the naming strategy.
func (rb *RecordBuilder) Field(ident string, t Type) *RecordBuilder {
	rb.decls = append(rb.decls, fieldDecl{ident: ident, typ: t})
	return rb
}

// FieldNamed declares a field with an explicit external name, bypassing the
// naming strategy. Renames that collide with another external name are not
// guarded; the caller owns that invariant.
func (rb *RecordBuilder) FieldNamed(ident, external string, t Type) *RecordBuilder {
	rb.decls = append(rb.decls, fieldDecl{ident: ident, rename: external, typ: t})
	return rb
}

// PrivateField declares a field that is only retained when the record was
// built with WithPrivateFields.
func (rb *RecordBuilder) PrivateField(ident string, t Type) *RecordBuilder {
	rb.decls = append(rb.decls, fieldDecl{ident: ident, typ: t, private: true})
	return rb
}

// Build validates the declaration and returns the immutable Record.
// It rejects an empty record name, empty identifiers, duplicate
// identifiers, and duplicate strategy-derived external names.
func (rb *RecordBuilder) Build() (*Record, error) {
	if rb.name == "" {
		return nil, fmt.Errorf("schema: record name must not be empty")
	}

	rec := &Record{
		name:    rb.name,
		byIdent: make(map[string]*Field),
	}
	derived := make(map[string]string) // external -> ident, non-renamed only

	for _, d := range rb.decls {
		if d.private && !rb.includePrivate {
			continue
		}
		if d.ident == "" {
			return nil, fmt.Errorf("schema: record %s: field identifier must not be empty", rb.name)
		}
		if _, dup := rec.byIdent[d.ident]; dup {
			return nil, fmt.Errorf("schema: record %s: duplicate field %q", rb.name, d.ident)
		}

		external := d.rename
		if external == "" {
			external = rb.strategy.Apply(d.ident)
			if prev, dup := derived[external]; dup {
				return nil, fmt.Errorf("schema: record %s: fields %q and %q both map to external name %q",
					rb.name, prev, d.ident, external)
			}
			derived[external] = d.ident
		}

		f := &Field{
			owner:    rec,
			name:     d.ident,
			external: external,
			typ:      d.typ,
			private:  d.private,
		}
		rec.fields = append(rec.fields, f)
		rec.byIdent[d.ident] = f
	}

	return rec, nil
}

// MustBuild is like Build but panics on validation failure. It is intended
// for package-level record variables.
func (rb *RecordBuilder) MustBuild() *Record {
	rec, err := rb.Build()
	if err != nil {
		panic(err)
	}
	return rec
}
