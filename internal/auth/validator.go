package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 128
	maxNameLength     = 50
)

// local-part@domain.tld: no whitespace, exactly one @, a dot after it
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// names the password rule a candidate failed
type PasswordRule string

const (
	RuleTooShort        PasswordRule = "too_short"
	RuleTooLong         PasswordRule = "too_long"
	RuleWeakComposition PasswordRule = "weak_composition"
)

// result of a password strength check; Rule and Message are empty when Valid
type PasswordCheck struct {
	Valid   bool
	Rule    PasswordRule
	Message string
}

// reports whether email has the local-part@domain.tld shape
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// checks length bounds first, then requires an upper case letter, a lower case letter and a digit
func ValidatePassword(password string) PasswordCheck {
	length := utf8.RuneCountInString(password)

	if length < minPasswordLength {
		return PasswordCheck{Rule: RuleTooShort, Message: "Password must be at least 6 characters long"}
	}

	if length > maxPasswordLength {
		return PasswordCheck{Rule: RuleTooLong, Message: "Password must be less than 128 characters"}
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return PasswordCheck{
			Rule:    RuleWeakComposition,
			Message: "Password must contain at least one uppercase letter, one lowercase letter, and one number",
		}
	}

	return PasswordCheck{Valid: true}
}

// strict equality
func ValidatePasswordMatch(password, confirmPassword string) bool {
	return password == confirmPassword
}

// accepts names of 1 to 50 characters after trimming
func ValidateName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n >= 1 && n <= maxNameLength
}

// trims surrounding whitespace from user supplied text
func SanitizeInput(input string) string {
	return strings.TrimSpace(input)
}
