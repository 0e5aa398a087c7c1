package repository

import (
	"context"
	"errors"

	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"gorm.io/gorm"
)

// BookmarkRepository stores private per-user bookmarks. There is no
// "who bookmarked this post" query; counts are aggregate only.
type BookmarkRepository interface {
	AddBookmark(ctx context.Context, userID, postID string) (*models.Bookmark, error)
	RemoveBookmark(ctx context.Context, userID, postID string) error
	CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error)
	BookmarkedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) AddBookmark(ctx context.Context, userID, postID string) (*models.Bookmark, error) {
	bookmark := &models.Bookmark{UserID: userID, PostID: postID}
	err := r.db.WithContext(ctx).Create(bookmark).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperrors.ErrAlreadyBookmarked
	}
	if err != nil {
		return nil, wrap(err)
	}
	return bookmark, nil
}

func (r *bookmarkRepository) RemoveBookmark(ctx context.Context, userID, postID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Bookmark{})
	if result.Error != nil {
		return wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotBookmarked
	}
	return nil
}

func (r *bookmarkRepository) CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	return countByPost(ctx, r.db, &models.Bookmark{}, postIDs)
}

func (r *bookmarkRepository) BookmarkedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	return postIDsForUser(ctx, r.db, &models.Bookmark{}, userID, postIDs)
}
