package models

import (
	"time"
)

// Profile holds the public-facing details attached one-to-one to a User.
// It is created inside the same transaction as the user itself, so a user
// without a profile cannot exist.
type Profile struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Bio       string     `gorm:"type:text" json:"bio"`
	ImageURL  string     `json:"image"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	FavoritePosts []FavoritePost `gorm:"foreignKey:ProfileID" json:"favorite_posts,omitempty"`
}
