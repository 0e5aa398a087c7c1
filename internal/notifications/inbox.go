package notifications

import (
	"context"

	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"github.com/roozanaryal/TwitterClone-sub000/internal/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// Page is one page of a recipient's notifications, newest first.
type Page struct {
	Notifications []*models.Notification `json:"notifications"`
	Total         int64                  `json:"total"`
	HasMore       bool                   `json:"hasMore"`
}

// Inbox serves the polling side of notifications.
type Inbox struct {
	notifications repository.NotificationRepository
}

func NewInbox(notifications repository.NotificationRepository) *Inbox {
	return &Inbox{notifications: notifications}
}

// List returns the 1-based page of recipientID's notifications. Zero page
// and limit take their defaults.
func (i *Inbox) List(ctx context.Context, recipientID string, page, limit int) (*Page, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if page < 1 {
		return nil, apperrors.ValidationError("page", "page must be at least 1")
	}
	if limit < 1 || limit > MaxPageSize {
		return nil, apperrors.ValidationError("limit", "limit must be between 1 and 50")
	}

	offset := (page - 1) * limit
	items, err := i.notifications.ListByRecipient(ctx, recipientID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := i.notifications.CountByRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Notification{}
	}

	return &Page{
		Notifications: items,
		Total:         total,
		HasMore:       int64(offset+len(items)) < total,
	}, nil
}

func (i *Inbox) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return i.notifications.CountUnread(ctx, recipientID)
}

func (i *Inbox) MarkRead(ctx context.Context, recipientID, notificationID string) error {
	return i.notifications.MarkRead(ctx, recipientID, notificationID)
}

// MarkAllRead returns how many notifications changed state.
func (i *Inbox) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	return i.notifications.MarkAllRead(ctx, recipientID)
}

func (i *Inbox) Delete(ctx context.Context, recipientID, notificationID string) error {
	return i.notifications.Delete(ctx, recipientID, notificationID)
}
