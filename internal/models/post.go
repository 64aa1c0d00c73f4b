package models

import (
	"strings"
	"time"
	"unicode"

	"gorm.io/gorm"
)

// Post represents a blog post. Slug is derived from the title when absent
// and must be unique across all posts. Status=false keeps the post out of
// public listings. Posts are hard-deleted so a deleted post's slug can be
// reused.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AuthorID   uint      `gorm:"not null;index" json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"-"`
	CategoryID *uint     `gorm:"index" json:"category_id,omitempty"`
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	Slug       string    `gorm:"uniqueIndex;not null" json:"slug"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	ImageURL   string    `json:"image"`
	Status     bool      `gorm:"default:false" json:"status"`
	// LikesCount is not persisted; computed at query time
	LikesCount  int            `gorm:"->" json:"likes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PublishedAt time.Time `json:"published_at"`

	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

// BeforeSave derives the slug from the title when one was not provided.
func (p *Post) BeforeSave(_ *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.PublishedAt.IsZero() {
		p.PublishedAt = time.Now()
	}
	return nil
}

// Slugify converts a title into a URL-safe slug: lowercase alphanumerics
// with single hyphens between words.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
