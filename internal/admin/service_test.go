package admin

import (
	"regexp"
	"testing"
)

func TestDeriveLoginEmail(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Programming Club", "programming_club@felicity.iiit.ac.in"},
		{"  The   Music  Club ", "the_music_club@felicity.iiit.ac.in"},
		{"Felicity", "felicity@felicity.iiit.ac.in"},
		{"E-Cell IIIT", "e-cell_iiit@felicity.iiit.ac.in"},
	}

	for _, tc := range cases {
		if got := DeriveLoginEmail(tc.name); got != tc.want {
			t.Errorf("DeriveLoginEmail(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestGeneratePassword(t *testing.T) {
	hexPattern := regexp.MustCompile(`^[0-9a-f]{16}$`)

	first, err := GeneratePassword()
	if err != nil {
		t.Fatalf("GeneratePassword: %v", err)
	}
	if !hexPattern.MatchString(first) {
		t.Fatalf("password %q is not 16 hex characters", first)
	}

	second, err := GeneratePassword()
	if err != nil {
		t.Fatalf("GeneratePassword: %v", err)
	}
	if first == second {
		t.Fatal("two generated passwords should not match")
	}
}
