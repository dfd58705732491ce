// Package validation holds input validation rules shared by handlers and services.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minPasswordLen = 8
	maxPasswordLen = 128
	maxFullNameLen = 100
	maxMessageLen  = 5000
)

// ValidateEmail checks basic email shape. Deliverability is not verified here.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidatePassword enforces the minimum password policy.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLen)
	}
	return nil
}

// ValidateFullName rejects empty or oversized display names.
func ValidateFullName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("full name is required")
	}
	if utf8.RuneCountInString(name) > maxFullNameLen {
		return fmt.Errorf("full name must be at most %d characters", maxFullNameLen)
	}
	return nil
}

// ValidateMessageContent rejects blank or oversized chat messages. The
// trimmed content is returned so callers store the normalized form.
func ValidateMessageContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", fmt.Errorf("message content cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > maxMessageLen {
		return "", fmt.Errorf("message must be at most %d characters", maxMessageLen)
	}
	return trimmed, nil
}
