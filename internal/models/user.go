package models

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the profile record owned by the account service. The feed only
// reads display fields from it; follower and following sets are derived
// from the follows edge table.
type User struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Username    string `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName string `gorm:"not null;default:''" json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary returns the denormalized owner card attached to feed items.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

// Label is the name used in notification text.
func (u *User) Label() string {
	switch {
	case u.DisplayName != "":
		return u.DisplayName
	case u.Username != "":
		return "@" + u.Username
	default:
		return u.ID
	}
}

// UserSummary is the public subset of a user shown next to posts,
// comments and follower lists.
type UserSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = generateUUID()
	}
	return nil
}

func generateUUID() string {
	return uuid.New().String()
}

var clock struct {
	sync.Mutex
	last time.Time
}

// Now returns the timestamp assigned to new rows: UTC with microsecond
// precision, so it compares equal after a round trip through postgres and
// through an RFC 3339 cursor. Successive calls in one process are strictly
// increasing.
func Now() time.Time {
	clock.Lock()
	defer clock.Unlock()

	now := time.Now().UTC().Truncate(time.Microsecond)
	if !now.After(clock.last) {
		now = clock.last.Add(time.Microsecond)
	}
	clock.last = now
	return now
}
