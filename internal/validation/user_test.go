package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"ada@example.com", "a.b+tag@sub.domain.io", " padded@example.com "}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	invalid := []string{"", "plain", "no@tld", "two@@example.com", "spaces in@example.com"}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), email)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 129)))
	assert.NoError(t, ValidatePassword("longenough"))
}

func TestValidateFullName(t *testing.T) {
	assert.Error(t, ValidateFullName("   "))
	assert.Error(t, ValidateFullName(strings.Repeat("n", 101)))
	assert.NoError(t, ValidateFullName("Ada Lovelace"))
}

func TestValidateMessageContent(t *testing.T) {
	_, err := ValidateMessageContent("   ")
	assert.Error(t, err)

	_, err = ValidateMessageContent(strings.Repeat("m", 5001))
	assert.Error(t, err)

	trimmed, err := ValidateMessageContent("  hello  ")
	assert.NoError(t, err)
	assert.Equal(t, "hello", trimmed)
}
