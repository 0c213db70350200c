package user

import (
	"testing"
)

func TestPasswordHashing(t *testing.T) {
	pw := "Supersecret1"
	hash, err := HashPassword(pw)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if err := CheckPassword(hash, pw); err != nil {
		t.Errorf("check should succeed: %v", err)
	}
	if err := CheckPassword(hash, "Wrongpw99"); err == nil {
		t.Errorf("expected failure for wrong password")
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		pw string
		ok bool
	}{
		{"Abcdef12", true},
		{"short1A", false},
		{"alllowercase1", false},
		{"ALLUPPERCASE1", false},
		{"NoDigitsHere", false},
	}
	for _, c := range cases {
		ok, msg := ValidatePassword(c.pw)
		if ok != c.ok {
			t.Errorf("ValidatePassword(%q) = %v (%s), want %v", c.pw, ok, msg, c.ok)
		}
		if !ok && msg == "" {
			t.Errorf("expected message for rejected password %q", c.pw)
		}
	}
}

func TestValidEmail(t *testing.T) {
	if !ValidEmail("kari@example.com") {
		t.Errorf("expected valid email to pass")
	}
	for _, bad := range []string{"", "no-at-sign", "a@b", "a b@c.com"} {
		if ValidEmail(bad) {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Kari@Example.COM "); got != "kari@example.com" {
		t.Errorf("unexpected normalized email: %q", got)
	}
}

func TestEffectivelyApproved(t *testing.T) {
	admin := User{Role: RoleAdmin, IsApproved: false}
	if !admin.EffectivelyApproved() {
		t.Errorf("admin should always be effectively approved")
	}
	pending := User{Role: RoleBorrower, IsApproved: false}
	if pending.EffectivelyApproved() {
		t.Errorf("unapproved borrower should not be approved")
	}
	approved := User{Role: RoleBorrower, IsApproved: true}
	if !approved.EffectivelyApproved() {
		t.Errorf("approved borrower should be approved")
	}
}

func TestValidRole(t *testing.T) {
	if !ValidRole("ADMIN") || !ValidRole("BORROWER") {
		t.Errorf("expected known roles to validate")
	}
	if ValidRole("admin") || ValidRole("SUPERUSER") || ValidRole("") {
		t.Errorf("expected unknown roles to be rejected")
	}
}
