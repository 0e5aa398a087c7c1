package repository

import (
	"context"

	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"gorm.io/gorm"
)

// CommentRepository stores append-only comments.
type CommentRepository interface {
	AppendComment(ctx context.Context, postID, authorID, body string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string, limit, offset int) ([]*models.Comment, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
	CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// AppendComment validates and stores a comment. The id and timestamp are
// assigned by the server.
func (r *commentRepository) AppendComment(ctx context.Context, postID, authorID, body string) (*models.Comment, error) {
	normalized, err := NormalizeBody(body)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID: postID,
		UserID: authorID,
		Body:   normalized,
	}
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, wrap(err)
	}
	return comment, nil
}

// ListByPost returns comments oldest first
func (r *commentRepository) ListByPost(ctx context.Context, postID string, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, wrap(err)
}

func (r *commentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, wrap(err)
}

func (r *commentRepository) CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	return countByPost(ctx, r.db, &models.Comment{}, postIDs)
}
