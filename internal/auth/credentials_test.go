package auth

import "testing"

func TestValidEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@sub.example.co",
		"u+tag@host.io",
	}
	for _, email := range valid {
		if !ValidEmail(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}

	invalid := []string{
		"",
		"plainaddress",
		"no at.example.com",
		"user@nodot",
		"user@@example.com",
		"user@ example.com",
	}
	for _, email := range invalid {
		if ValidEmail(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestPasswordStrength(t *testing.T) {
	cases := []struct {
		pwd   string
		label StrengthLabel
	}{
		{"", StrengthNone},
		{"abc", StrengthWeak},           // lowercase only
		{"abcdefgh", StrengthWeak},      // length 8 + lowercase
		{"Abcdefgh", StrengthMedium},    // length 8 + lower + upper
		{"Abcdefg1", StrengthMedium},    // length 8 + three classes
		{"Abcdefghijk1", StrengthStrong},  // length 8+12 + three classes
		{"Abcdefghijklmno1!", StrengthStrong}, // everything
	}
	for _, tc := range cases {
		got := PasswordStrength(tc.pwd)
		if got.Label != tc.label {
			t.Errorf("PasswordStrength(%q) = %q, want %q", tc.pwd, got.Label, tc.label)
		}
	}
}
