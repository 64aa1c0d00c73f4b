package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidatePassword("passw0rd"))
	assert.NoError(t, ValidatePassword("Str0ng-enough"))

	assert.Error(t, ValidatePassword("short1"))
	assert.Error(t, ValidatePassword("nodigitshere"))
	assert.Error(t, ValidatePassword("12345678"))
	assert.Error(t, ValidatePassword(strings.Repeat("a1", 100)))
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateEmail("reader@example.com"))
	assert.NoError(t, ValidateEmail("first.last+tag@sub.example.org"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@example.com"))
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateName("first_name", "Ada"))
	assert.NoError(t, ValidateName("first_name", ""))
	assert.Error(t, ValidateName("first_name", strings.Repeat("x", 251)))
}

func TestValidateBio(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateBio(""))
	assert.NoError(t, ValidateBio("short bio"))
	assert.Error(t, ValidateBio(strings.Repeat("x", 3001)))
}
