package repository

import (
	"context"
	"errors"

	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"gorm.io/gorm"
)

// FollowRepository stores follow edges. A single row answers both
// "whom does A follow" and "who follows B".
type FollowRepository interface {
	AddFollow(ctx context.Context, followerID, targetID string) (*models.Follow, error)
	RemoveFollow(ctx context.Context, followerID, targetID string) error
	IsFollowing(ctx context.Context, followerID, targetID string) (bool, error)
	ListFollowers(ctx context.Context, userID string, limit, offset int) ([]*models.User, error)
	ListFollowing(ctx context.Context, userID string, limit, offset int) ([]*models.User, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// AddFollow inserts the edge follower -> target. The unique index on the
// pair makes a concurrent duplicate fail with ErrAlreadyFollowing.
func (r *followRepository) AddFollow(ctx context.Context, followerID, targetID string) (*models.Follow, error) {
	if followerID == targetID {
		return nil, apperrors.ErrSelfFollow
	}
	if !validID(followerID) || !validID(targetID) {
		return nil, apperrors.NotFound("user")
	}

	follow := &models.Follow{FollowerID: followerID, FollowingID: targetID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUsers(tx, followerID, targetID); err != nil {
			return err
		}
		return tx.Create(follow).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperrors.ErrAlreadyFollowing
	}
	if err != nil {
		return nil, wrap(err)
	}
	return follow, nil
}

// RemoveFollow deletes the edge follower -> target.
func (r *followRepository) RemoveFollow(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return apperrors.ErrSelfFollow
	}
	if !validID(followerID) || !validID(targetID) {
		return apperrors.NotFound("user")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUsers(tx, followerID, targetID); err != nil {
			return err
		}
		result := tx.Where("follower_id = ? AND following_id = ?", followerID, targetID).
			Delete(&models.Follow{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFollowing
		}
		return nil
	})
	return wrap(err)
}

func requireUsers(tx *gorm.DB, ids ...string) error {
	distinct := validIDs(ids)

	var count int64
	if err := tx.Model(&models.User{}).Where("id IN ?", distinct).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(distinct) {
		return apperrors.NotFound("user")
	}
	return nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, targetID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, targetID).
		Count(&count).Error
	return count > 0, wrap(err)
}

// ListFollowers returns users following userID, most recent edge first
func (r *followRepository) ListFollowers(ctx context.Context, userID string, limit, offset int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").
		Order("follows.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, wrap(err)
}

// ListFollowing returns users that userID follows, most recent edge first
func (r *followRepository) ListFollowing(ctx context.Context, userID string, limit, offset int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Order("follows.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, wrap(err)
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	return count, wrap(err)
}

func (r *followRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, wrap(err)
}
