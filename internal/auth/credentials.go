package auth

import "regexp"

// MinPasswordLength applies to sign-up and password reset.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

type StrengthLabel string

const (
	StrengthNone   StrengthLabel = "none"
	StrengthWeak   StrengthLabel = "Weak"
	StrengthMedium StrengthLabel = "Medium"
	StrengthStrong StrengthLabel = "Strong"
)

type Strength struct {
	Label StrengthLabel
	Score int
}

var (
	lowerPattern  = regexp.MustCompile(`[a-z]`)
	upperPattern  = regexp.MustCompile(`[A-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
	symbolPattern = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
)

// PasswordStrength scores a candidate password: one point per length
// threshold (8, 12, 16) and per character class present, then bucketed into
// Weak (≤2), Medium (≤4), Strong.
func PasswordStrength(pwd string) Strength {
	if pwd == "" {
		return Strength{Label: StrengthNone, Score: 0}
	}

	score := 0
	if len(pwd) >= 8 {
		score++
	}
	if len(pwd) >= 12 {
		score++
	}
	if len(pwd) >= 16 {
		score++
	}
	if lowerPattern.MatchString(pwd) {
		score++
	}
	if upperPattern.MatchString(pwd) {
		score++
	}
	if digitPattern.MatchString(pwd) {
		score++
	}
	if symbolPattern.MatchString(pwd) {
		score++
	}

	switch {
	case score <= 2:
		return Strength{Label: StrengthWeak, Score: 1}
	case score <= 4:
		return Strength{Label: StrengthMedium, Score: 2}
	default:
		return Strength{Label: StrengthStrong, Score: 3}
	}
}
