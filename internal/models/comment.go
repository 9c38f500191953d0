package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a reply attached to a post.
type Comment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PostID   uint      `gorm:"not null;index" json:"post_id"`
	Post     *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID uint      `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Created  time.Time `gorm:"not null;index" json:"created"`
}

// BeforeCreate stamps the creation time when the caller did not.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.Created.IsZero() {
		c.Created = time.Now().UTC()
	}
	return nil
}
