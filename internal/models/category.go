package models

import (
	"strings"
	"unicode"

	"gorm.io/gorm"
)

// Category groups posts under a unique, capitalized name.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:20;unique;not null" json:"name"`
}

// BeforeSave capitalizes the category name, mirroring the admin-facing
// normalization the platform has always applied.
func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = Capitalize(c.Name)
	return nil
}

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
