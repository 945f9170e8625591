// Package testutil provides shared record fixtures and panic helpers for
// the builder package tests. The fixtures mirror a small commerce domain
// (users with nested addresses, products with array fields) so tests can
// exercise nesting, containers, and optionals without declaring schemas
// inline.
package testutil

import (
	"testing"

	"github.com/fieldwise/fieldwise/schema"
)

// AddressFields gives typed access to the Address record and its tokens.
type AddressFields struct {
	Record  *schema.Record
	Street  *schema.Field
	City    *schema.Field
	ZipCode *schema.Field
	Country *schema.Field
}

// NewAddress declares a fresh Address record. Each call produces a new
// record with its own tokens.
func NewAddress(t *testing.T) AddressFields {
	t.Helper()

	rec, err := schema.NewRecord("Address").
		Field("street", schema.String()).
		Field("city", schema.String()).
		Field("zip_code", schema.String()).
		Field("country", schema.String()).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	return AddressFields{
		Record:  rec,
		Street:  rec.MustToken("street"),
		City:    rec.MustToken("city"),
		ZipCode: rec.MustToken("zip_code"),
		Country: rec.MustToken("country"),
	}
}

// ContactFields gives typed access to the ContactInfo record.
type ContactFields struct {
	Record *schema.Record
	Email  *schema.Field
	Phone  *schema.Field
}

// NewContact declares a fresh ContactInfo record.
func NewContact(t *testing.T) ContactFields {
	t.Helper()

	rec, err := schema.NewRecord("ContactInfo").
		Field("email", schema.String()).
		Field("phone", schema.OptionalOf(schema.String())).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	return ContactFields{
		Record: rec,
		Email:  rec.MustToken("email"),
		Phone:  rec.MustToken("phone"),
	}
}

// UserFields gives typed access to the User record, which embeds Address
// twice and ContactInfo once to exercise nested lookups.
type UserFields struct {
	Record      *schema.Record
	ID          *schema.Field
	Name        *schema.Field
	Age         *schema.Field
	Score       *schema.Field
	Active      *schema.Field
	CreatedAt   *schema.Field
	Tags        *schema.Field
	HomeAddress *schema.Field
	WorkAddress *schema.Field
	Contact     *schema.Field

	Address AddressFields
	Info    ContactFields
}

// NewUser declares a fresh User record together with the Address and
// ContactInfo records it embeds.
func NewUser(t *testing.T) UserFields {
	t.Helper()

	addr := NewAddress(t)
	info := NewContact(t)

	rec, err := schema.NewRecord("User").
		Field("id", schema.String()).
		Field("name", schema.String()).
		Field("age", schema.Int32()).
		Field("score", schema.Float64()).
		Field("active", schema.Bool()).
		Field("created_at", schema.DateTime()).
		Field("tags", schema.ListOf(schema.String())).
		Field("home_address", schema.RecordOf(addr.Record)).
		Field("work_address", schema.OptionalOf(schema.RecordOf(addr.Record))).
		Field("contact", schema.RecordOf(info.Record)).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	return UserFields{
		Record:      rec,
		ID:          rec.MustToken("id"),
		Name:        rec.MustToken("name"),
		Age:         rec.MustToken("age"),
		Score:       rec.MustToken("score"),
		Active:      rec.MustToken("active"),
		CreatedAt:   rec.MustToken("created_at"),
		Tags:        rec.MustToken("tags"),
		HomeAddress: rec.MustToken("home_address"),
		WorkAddress: rec.MustToken("work_address"),
		Contact:     rec.MustToken("contact"),
		Address:     addr,
		Info:        info,
	}
}

// ProductFields gives typed access to the Product record.
type ProductFields struct {
	Record     *schema.Record
	ID         *schema.Field
	Name       *schema.Field
	Price      *schema.Field
	Stock      *schema.Field
	Categories *schema.Field
	Brand      *schema.Field
}

// NewProduct declares a fresh Product record.
func NewProduct(t *testing.T) ProductFields {
	t.Helper()

	rec, err := schema.NewRecord("Product").
		Field("id", schema.String()).
		Field("name", schema.String()).
		Field("price", schema.Float64()).
		Field("stock", schema.Int32()).
		Field("categories", schema.ListOf(schema.String())).
		Field("brand", schema.OptionalOf(schema.String())).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	return ProductFields{
		Record:     rec,
		ID:         rec.MustToken("id"),
		Name:       rec.MustToken("name"),
		Price:      rec.MustToken("price"),
		Stock:      rec.MustToken("stock"),
		Categories: rec.MustToken("categories"),
		Brand:      rec.MustToken("brand"),
	}
}

// Panics runs fn and returns whatever it panicked with, or nil when fn
// returned normally.
func Panics(fn func()) (recovered any) {
	defer func() { recovered = recover() }()
	fn()
	return nil
}

// ExpectMismatch runs fn and fails the test unless it panics with a
// *schema.MismatchError, which it returns for further assertions.
func ExpectMismatch(t *testing.T, fn func()) *schema.MismatchError {
	t.Helper()

	recovered := Panics(fn)
	if recovered == nil {
		t.Fatal("expected a schema mismatch panic, got none")
	}
	me, ok := recovered.(*schema.MismatchError)
	if !ok {
		t.Fatalf("expected *schema.MismatchError, got %T: %v", recovered, recovered)
	}
	return me
}
