// ABOUTME: Request field validation for signup and profile updates
// ABOUTME: Username, email, and password rules with user-facing messages

package api

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	maxEmailLength  = 100
	minPasswordLen  = 8
	passwordSpecial = "!@#$%^&*()-_=+[]{};:'\",.<>/?\\|`~"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// validateUsername checks the 3-50 character word-character rule.
func validateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username must be 3-50 characters of letters, digits, or underscore")
	}
	return nil
}

// validateEmail checks shape and length. Callers store the lowercased form.
func validateEmail(email string) error {
	if len(email) > maxEmailLength {
		return fmt.Errorf("email must be at most %d characters", maxEmailLength)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("email is not valid")
	}
	return nil
}

// validatePassword enforces length and character-class requirements:
// at least one upper, one lower, one digit, and one special character.
func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	switch {
	case !hasUpper:
		return fmt.Errorf("password must contain an uppercase letter")
	case !hasLower:
		return fmt.Errorf("password must contain a lowercase letter")
	case !hasDigit:
		return fmt.Errorf("password must contain a digit")
	case !strings.ContainsAny(password, passwordSpecial):
		return fmt.Errorf("password must contain a special character")
	}
	return nil
}
