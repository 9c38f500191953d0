package models

import (
	"time"

	"gorm.io/gorm"
)

// PostPreviewLength is the number of characters a post renders as in listings and admin output.
const PostPreviewLength = 15

// Post is a published entry. Posts are listed newest first.
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"not null;index" json:"pub_date"`
	AuthorID uint      `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID  *uint     `gorm:"index" json:"group_id,omitempty"`
	Group    *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Image    string    `gorm:"size:255" json:"image,omitempty"`
}

// BeforeCreate stamps the publication date when the caller did not.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.PubDate.IsZero() {
		p.PubDate = time.Now().UTC()
	}
	return nil
}

// String returns the first PostPreviewLength characters of the text.
func (p Post) String() string {
	runes := []rune(p.Text)
	if len(runes) <= PostPreviewLength {
		return p.Text
	}
	return string(runes[:PostPreviewLength])
}
