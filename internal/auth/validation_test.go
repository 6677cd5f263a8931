package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("a@test.com"))
	assert.NoError(t, ValidateEmail("first.last+tag@sub.example.org"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("no-at-sign"))
	assert.Error(t, ValidateEmail("a@b"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@test.com"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret123"))
	assert.NoError(t, ValidatePassword(strings.Repeat("x", 72)))

	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 73)))
}
