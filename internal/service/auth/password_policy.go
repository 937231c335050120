package auth

import "strings"

// PasswordStrength is the three-level classification reported alongside
// password validation.
type PasswordStrength string

const (
	StrengthWeak   PasswordStrength = "weak"
	StrengthMedium PasswordStrength = "medium"
	StrengthStrong PasswordStrength = "strong"
)

// PasswordCheck reports which policy requirements a candidate password
// meets. IsValid requires length, upper, lower and digit; the symbol check
// only feeds the strength score.
type PasswordCheck struct {
	IsValid   bool             `json:"is_valid"`
	MinLength bool             `json:"min_length"`
	HasUpper  bool             `json:"has_upper"`
	HasLower  bool             `json:"has_lower"`
	HasNumber bool             `json:"has_number"`
	HasSymbol bool             `json:"has_symbol"`
	Strength  PasswordStrength `json:"strength"`
}

// CheckPassword evaluates a candidate password against the registration
// policy: at least 8 characters with an uppercase letter, a lowercase
// letter and a digit. Strength counts five checks (the four required plus
// symbol): fewer than 3 is weak, exactly 3 medium, 4 or more strong.
func CheckPassword(password string) PasswordCheck {
	check := PasswordCheck{
		MinLength: len(password) >= 8,
	}

	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			check.HasUpper = true
		case r >= 'a' && r <= 'z':
			check.HasLower = true
		case r >= '0' && r <= '9':
			check.HasNumber = true
		default:
			check.HasSymbol = true
		}
	}

	check.IsValid = check.MinLength && check.HasUpper && check.HasLower && check.HasNumber

	score := 0
	for _, passed := range []bool{check.MinLength, check.HasUpper, check.HasLower, check.HasNumber, check.HasSymbol} {
		if passed {
			score++
		}
	}

	switch {
	case score < 3:
		check.Strength = StrengthWeak
	case score < 4:
		check.Strength = StrengthMedium
	default:
		check.Strength = StrengthStrong
	}

	return check
}

// ValidateEmail reports whether the string has the local@domain.tld shape.
// Deliberately simple; the unique index on email is the real gatekeeper.
func ValidateEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	// Exactly one @.
	if strings.Contains(email[at+1:], "@") {
		return false
	}

	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}

	return !strings.ContainsAny(email, " \t\r\n")
}
