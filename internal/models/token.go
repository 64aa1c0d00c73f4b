package models

import "time"

// AuthToken is an opaque login token persisted per user, issued by the
// token login endpoint and removed on logout. One token per user; repeated
// logins return the existing key.
type AuthToken struct {
	Key       string    `gorm:"primaryKey;size:40" json:"token"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
