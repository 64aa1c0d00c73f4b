// Package models contains data structures for the application's domain models.
package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// User represents an account in the blog platform. Email is the login
// identifier. A freshly registered user has IsVerified=false until the
// activation link is confirmed.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"unique;not null" json:"email"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Password    string         `gorm:"not null" json:"-"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	IsStaff     bool           `gorm:"default:false" json:"is_staff"`
	IsSuperuser bool           `gorm:"default:false" json:"is_superuser"`
	IsVerified  bool           `gorm:"default:false" json:"is_verified"`
	LastLogin   time.Time      `json:"last_login"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Profile *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Posts   []Post   `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

// FullName joins the user's first and last name.
func (u *User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}
