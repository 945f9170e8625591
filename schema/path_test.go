package schema

import "testing"

func pathFixtures(t *testing.T) (user, address *Record) {
	t.Helper()

	address = NewRecord("Address").
		Field("street", String()).
		Field("city", String()).
		MustBuild()
	user = NewRecord("User").
		Field("name", String()).
		Field("home_address", RecordOf(address)).
		MustBuild()
	return user, address
}

func TestPathRender(t *testing.T) {
	user, address := pathFixtures(t)

	p := NewPath(user.MustToken("name"))
	if got := p.Render(); got != "name" {
		t.Errorf("Render() = %q, want name", got)
	}
	if p.Root() != user || p.At() != user {
		t.Error("single-segment path should be rooted at and positioned on User")
	}

	nested := NewPath(user.MustToken("home_address")).Field(address.MustToken("street"))
	if got := nested.Render(); got != "home_address.street" {
		t.Errorf("Render() = %q, want home_address.street", got)
	}
	if nested.Root() != user {
		t.Error("navigation changed the root record")
	}
	if nested.At() != address {
		t.Error("leaf should be positioned on Address")
	}
}

func TestPrefixedPathRender(t *testing.T) {
	user, _ := pathFixtures(t)

	p := PrefixedPath([]string{"accounts", "primary"}, user.MustToken("name"))
	if got := p.Render(); got != "accounts.primary.name" {
		t.Errorf("Render() = %q, want accounts.primary.name", got)
	}
}

func TestPathImmutability(t *testing.T) {
	user, address := pathFixtures(t)

	base := NewPath(user.MustToken("home_address"))
	street := base.Field(address.MustToken("street"))
	city := base.Field(address.MustToken("city"))

	if got := base.Render(); got != "home_address" {
		t.Errorf("base mutated to %q", got)
	}
	if street.Render() != "home_address.street" || city.Render() != "home_address.city" {
		t.Error("extensions from a shared base interfere with each other")
	}

	// Mutating a returned prefix must not leak into the path.
	prefix := street.Prefix()
	prefix[0] = "clobbered"
	if street.Render() != "home_address.street" {
		t.Error("mutating Prefix() result changed the path")
	}
}

func TestPathFieldRejectsNonRecordLeaf(t *testing.T) {
	user, address := pathFixtures(t)

	recovered := func() (r any) {
		defer func() { r = recover() }()
		NewPath(user.MustToken("name")).Field(address.MustToken("street"))
		return nil
	}()

	me, ok := recovered.(*MismatchError)
	if !ok {
		t.Fatalf("expected *MismatchError panic, got %T: %v", recovered, recovered)
	}
	if me.Record != "User" {
		t.Errorf("error names record %q, want User", me.Record)
	}
}

func TestPathFieldRejectsForeignToken(t *testing.T) {
	user, _ := pathFixtures(t)
	other := NewRecord("Warehouse").Field("street", String()).MustBuild()

	recovered := func() (r any) {
		defer func() { r = recover() }()
		NewPath(user.MustToken("home_address")).Field(other.MustToken("street"))
		return nil
	}()

	if _, ok := recovered.(*MismatchError); !ok {
		t.Fatalf("expected *MismatchError panic, got %T: %v", recovered, recovered)
	}
}
