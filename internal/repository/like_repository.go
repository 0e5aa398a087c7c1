package repository

import (
	"context"
	"errors"

	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"gorm.io/gorm"
)

// LikeRepository stores like edges between users and posts.
type LikeRepository interface {
	AddLike(ctx context.Context, postID, userID string) (*models.Like, error)
	RemoveLike(ctx context.Context, postID, userID string) error
	CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error)
	LikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// AddLike fails with ErrAlreadyLiked when the edge exists.
func (r *likeRepository) AddLike(ctx context.Context, postID, userID string) (*models.Like, error) {
	like := &models.Like{UserID: userID, PostID: postID}
	err := r.db.WithContext(ctx).Create(like).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperrors.ErrAlreadyLiked
	}
	if err != nil {
		return nil, wrap(err)
	}
	return like, nil
}

// RemoveLike fails with ErrNotLiked when there is nothing to remove.
func (r *likeRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if result.Error != nil {
		return wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotLiked
	}
	return nil
}

func (r *likeRepository) CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	return countByPost(ctx, r.db, &models.Like{}, postIDs)
}

func (r *likeRepository) LikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	return postIDsForUser(ctx, r.db, &models.Like{}, userID, postIDs)
}

type postCount struct {
	PostID string
	Total  int64
}

// countByPost runs one GROUP BY over an edge table keyed by post_id.
func countByPost(ctx context.Context, db *gorm.DB, model interface{}, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []postCount
	err := db.WithContext(ctx).
		Model(model).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap(err)
	}
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}

// postIDsForUser returns which of postIDs have an edge from userID.
func postIDsForUser(ctx context.Context, db *gorm.DB, model interface{}, userID string, postIDs []string) (map[string]bool, error) {
	flags := make(map[string]bool, len(postIDs))
	if userID == "" || len(postIDs) == 0 {
		return flags, nil
	}

	var ids []string
	err := db.WithContext(ctx).
		Model(model).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, wrap(err)
	}
	for _, id := range ids {
		flags[id] = true
	}
	return flags, nil
}
