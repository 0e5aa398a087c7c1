package models

import (
	"time"

	"gorm.io/gorm"
)

// NotificationKind is the engagement action that produced a notification.
type NotificationKind string

const (
	NotificationLike    NotificationKind = "like"
	NotificationComment NotificationKind = "comment"
	NotificationFollow  NotificationKind = "follow"
)

// Valid reports whether k is a known kind.
func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationLike, NotificationComment, NotificationFollow:
		return true
	}
	return false
}

// Notification is a persisted, poll-retrievable notice for RecipientID.
// ActionKey identifies the triggering action; at most one notification
// exists per key.
type Notification struct {
	ID          string           `gorm:"primaryKey;type:uuid" json:"id"`
	RecipientID string           `gorm:"type:uuid;not null" json:"recipientId"`
	ActorID     string           `gorm:"type:uuid;not null" json:"actorId"`
	Kind        NotificationKind `gorm:"type:varchar(16);not null" json:"kind"`
	PostID      *string          `gorm:"type:uuid" json:"postId,omitempty"`
	CommentID   *string          `gorm:"type:uuid" json:"commentId,omitempty"`
	Message     string           `gorm:"type:text;not null" json:"message"`
	IsRead      bool             `gorm:"not null;default:false" json:"isRead"`
	ActionKey   string           `gorm:"type:varchar(128);not null;uniqueIndex" json:"-"`
	CreatedAt   time.Time        `gorm:"not null" json:"createdAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = generateUUID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = Now()
	}
	return nil
}

// AllModels lists every table owned by this service, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&Comment{},
		&Follow{},
		&Like{},
		&Bookmark{},
		&Notification{},
	}
}
