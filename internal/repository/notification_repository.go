package repository

import (
	"context"

	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepository persists notifications for polling clients.
type NotificationRepository interface {
	// Create inserts n unless a notification with the same action key
	// exists. created is false for the duplicate case.
	Create(ctx context.Context, n *models.Notification) (created bool, err error)
	ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*models.Notification, error)
	CountByRecipient(ctx context.Context, recipientID string) (int64, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	MarkRead(ctx context.Context, recipientID, notificationID string) error
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	Delete(ctx context.Context, recipientID, notificationID string) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) (bool, error) {
	if n == nil || n.ActionKey == "" {
		return false, ErrInvalidInput
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "action_key"}},
			DoNothing: true,
		}).
		Create(n)
	if result.Error != nil {
		return false, wrap(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListByRecipient returns notifications newest first
func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, wrap(err)
}

func (r *notificationRepository) CountByRecipient(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ?", recipientID).
		Count(&count).Error
	return count, wrap(err)
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, wrap(err)
}

// MarkRead marks one of the recipient's notifications read. Marking an
// already-read notification succeeds.
func (r *notificationRepository) MarkRead(ctx context.Context, recipientID, notificationID string) error {
	if !validID(notificationID) {
		return apperrors.NotFound("notification")
	}
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("is_read", true)
	if result.Error != nil {
		return wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("notification")
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return result.RowsAffected, wrap(result.Error)
}

func (r *notificationRepository) Delete(ctx context.Context, recipientID, notificationID string) error {
	if !validID(notificationID) {
		return apperrors.NotFound("notification")
	}
	result := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("notification")
	}
	return nil
}
