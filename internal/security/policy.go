package security

import (
	"regexp"
	"strings"
	"unicode"
)

// local@domain.tld shape only, no deliverability check.
var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidateEmail(email string) bool {
	return emailRE.MatchString(email)
}

// NormalizeEmail lowercases and trims the way the store expects it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword checks the signup password policy and returns the
// message for the first violated rule, or "" when the password complies.
// Rules: length >= 8, at least one lowercase, one uppercase, one digit.
func ValidatePassword(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters long"
	}

	var hasLower, hasUpper, hasDigit bool

	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLower {
		return "Password must contain at least one lowercase letter"
	}

	if !hasUpper {
		return "Password must contain at least one uppercase letter"
	}

	if !hasDigit {
		return "Password must contain at least one number"
	}

	return ""
}
