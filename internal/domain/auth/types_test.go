package auth

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"buyer", RoleBuyer},
		{"Artist", RoleArtist},
		{" museum ", RoleMuseum},
		{"ADMIN", RoleAdmin},
		{"guest", RoleGuest},
		{"", RoleGuest},
		{"superuser", RoleGuest},
	}
	for _, tt := range tests {
		if got := ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRole_Valid(t *testing.T) {
	if !RoleMuseum.Valid() {
		t.Fatalf("expected museum to be valid")
	}
	if Role("curator").Valid() {
		t.Fatalf("did not expect curator to be valid")
	}
}

func TestPrincipal_IsGuest(t *testing.T) {
	if !(Principal{Role: RoleGuest}).IsGuest() {
		t.Fatalf("expected guest")
	}
	if (Principal{Role: RoleBuyer}).IsGuest() {
		t.Fatalf("did not expect guest")
	}
}

func TestTokenKind_CookieName(t *testing.T) {
	if AccessToken.CookieName() != "access_token" {
		t.Fatalf("unexpected access cookie name %q", AccessToken.CookieName())
	}
	if RefreshToken.CookieName() != "refresh_token" {
		t.Fatalf("unexpected refresh cookie name %q", RefreshToken.CookieName())
	}
}

func TestIdentitySource_Authority(t *testing.T) {
	sources := []struct {
		src           IdentitySource
		kind          SourceKind
		authoritative bool
	}{
		{SessionIdentity{Principal: Principal{Identifier: "u1"}}, SourceSession, true},
		{DemoIdentitySource{Identity: DemoIdentity{ID: "demo"}}, SourceDemo, false},
		{Anonymous{}, SourceAnonymous, false},
	}
	for _, s := range sources {
		if s.src.Kind() != s.kind {
			t.Errorf("kind = %q, want %q", s.src.Kind(), s.kind)
		}
		if s.src.Authoritative() != s.authoritative {
			t.Errorf("%s authoritative = %v, want %v", s.kind, s.src.Authoritative(), s.authoritative)
		}
	}
}

func TestDemoIdentity_DisplayName(t *testing.T) {
	d := DemoIdentity{FirstName: "Demo", LastName: "Admin"}
	if d.DisplayName() != "Demo Admin" {
		t.Fatalf("unexpected display name %q", d.DisplayName())
	}
}
