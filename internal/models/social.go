package models

import (
	"time"

	"gorm.io/gorm"
)

// Follow is one directed edge: FollowerID follows FollowingID. The unique
// index makes a concurrent duplicate follow fail instead of producing two
// rows; both directions of the relationship are read from this one row.
type Follow struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	FollowerID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair,priority:1" json:"followerId"`
	FollowingID string    `gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair,priority:2;index" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = generateUUID()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = Now()
	}
	return nil
}

// Like records that UserID liked PostID.
type Like struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_post,priority:1" json:"userId"`
	PostID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_post,priority:2;index" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = generateUUID()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = Now()
	}
	return nil
}

// Bookmark is a private per-user saved post. CreatedAt is recorded but the
// bookmarks feed is ordered by post creation time.
type Bookmark struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_user_post,priority:1" json:"userId"`
	PostID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_user_post,priority:2;index" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (b *Bookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = generateUUID()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = Now()
	}
	return nil
}
