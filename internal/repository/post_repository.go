package repository

import (
	"context"
	"time"

	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"gorm.io/gorm"
)

// FeedQuery selects one page of a feed view. Before and BeforeID are the
// (created_at, id) of the last post already returned; nil Before means the
// first page. With an empty BeforeID every post at Before is skipped.
type FeedQuery struct {
	View     models.FeedView
	ViewerID string
	Before   *time.Time
	BeforeID string
	Limit    int
}

// PostRepository stores posts and answers feed page queries.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	FeedPage(ctx context.Context, q FeedQuery) ([]*models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post == nil || post.UserID == "" {
		return ErrInvalidInput
	}
	return wrap(r.db.WithContext(ctx).Create(post).Error)
}

func (r *postRepository) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	if !validID(postID) {
		return nil, apperrors.NotFound("post")
	}
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", postID).First(&post).Error; err != nil {
		return nil, lookup(err, "post")
	}
	return &post, nil
}

// FeedPage returns up to q.Limit posts of the view, ordered by
// (created_at DESC, id DESC).
func (r *postRepository) FeedPage(ctx context.Context, q FeedQuery) ([]*models.Post, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{})

	switch q.View {
	case models.FeedFollowing:
		followed := r.db.Model(&models.Follow{}).
			Select("following_id").
			Where("follower_id = ?", q.ViewerID)
		query = query.Where("posts.user_id = ? OR posts.user_id IN (?)", q.ViewerID, followed)
	case models.FeedOwn:
		query = query.Where("posts.user_id = ?", q.ViewerID)
	case models.FeedBookmarks:
		bookmarked := r.db.Model(&models.Bookmark{}).
			Select("post_id").
			Where("user_id = ?", q.ViewerID)
		query = query.Where("posts.id IN (?)", bookmarked)
	}

	switch {
	case q.Before != nil && q.BeforeID != "":
		before := q.Before.UTC()
		query = query.Where("(posts.created_at < ? OR (posts.created_at = ? AND posts.id < ?))", before, before, q.BeforeID)
	case q.Before != nil:
		query = query.Where("posts.created_at < ?", q.Before.UTC())
	}

	var posts []*models.Post
	err := query.
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(q.Limit).
		Find(&posts).Error
	return posts, wrap(err)
}
