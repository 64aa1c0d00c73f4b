package models

import "time"

// FavoritePost bookmarks a post on a profile. Toggled like a Like.
type FavoritePost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProfileID uint      `gorm:"not null;uniqueIndex:idx_favorite_profile_post" json:"profile_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_favorite_profile_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	Profile Profile `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"-"`
	Post    Post    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post"`
}
