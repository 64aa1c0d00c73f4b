package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Go 1.22 Released!", "go-1-22-released"},
		{"  leading and trailing  ", "leading-and-trailing"},
		{"многоязычный заголовок", "многоязычный-заголовок"},
		{"UPPER-case...dots", "upper-case-dots"},
		{"", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "input %q", tt.in)
	}
}

func TestCapitalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"technology", "Technology"},
		{"TECHNOLOGY", "Technology"},
		{"go", "Go"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Capitalize(tt.in), "input %q", tt.in)
	}
}

func TestUserFullName(t *testing.T) {
	t.Parallel()

	u := &User{FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", u.FullName())
}
