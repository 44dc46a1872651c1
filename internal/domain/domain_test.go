package domain

import "testing"

func TestTokenUsableRequiresBothFlagsClear(t *testing.T) {
	cases := []struct {
		name             string
		expired, revoked bool
		want             bool
	}{
		{"fresh", false, false, true},
		{"expired only", true, false, false},
		{"revoked only", false, true, false},
		{"both", true, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tok := Token{Expired: tc.expired, Revoked: tc.revoked}
			if got := tok.Usable(); got != tc.want {
				t.Fatalf("Usable() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAdmin} {
		if !r.Valid() {
			t.Fatalf("expected %q to be valid", r)
		}
	}
	for _, r := range []Role{"", "user", "ROOT"} {
		if r.Valid() {
			t.Fatalf("expected %q to be invalid", r)
		}
	}
}
