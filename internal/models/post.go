package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxBodyLength is the maximum length, in characters, of a post or comment
// body after trimming.
const MaxBodyLength = 280

// Post is a short message. Owner and creation time never change after
// insert; created_at is the feed sort key and the cursor value.
type Post struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"type:uuid;not null" json:"userId"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = generateUUID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = Now()
	}
	return nil
}

// Comment is an append-only reply on a post.
type Comment struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	PostID    string    `gorm:"type:uuid;not null" json:"postId"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"userId"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = generateUUID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = Now()
	}
	return nil
}
