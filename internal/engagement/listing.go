package engagement

import (
	"context"

	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
)

const (
	defaultListLimit = 20
	maxListLimit     = 50
)

// UserPage is one offset page of a follower or following list.
type UserPage struct {
	Users   []models.UserSummary `json:"users"`
	Total   int64                `json:"total"`
	HasMore bool                 `json:"hasMore"`
}

// CommentView is a comment with its author's card.
type CommentView struct {
	*models.Comment
	Author *models.UserSummary `json:"author,omitempty"`
}

type CommentPage struct {
	Comments []CommentView `json:"comments"`
	Total    int64         `json:"total"`
	HasMore  bool          `json:"hasMore"`
}

// Followers lists the users following userID, newest edge first.
func (s *Service) Followers(ctx context.Context, userID string, offset, limit int) (*UserPage, error) {
	return s.listUsers(ctx, userID, offset, limit,
		s.store.Follows.ListFollowers, s.store.Follows.CountFollowers)
}

// Following lists the users userID follows, newest edge first.
func (s *Service) Following(ctx context.Context, userID string, offset, limit int) (*UserPage, error) {
	return s.listUsers(ctx, userID, offset, limit,
		s.store.Follows.ListFollowing, s.store.Follows.CountFollowing)
}

func (s *Service) listUsers(
	ctx context.Context,
	userID string,
	offset, limit int,
	list func(context.Context, string, int, int) ([]*models.User, error),
	count func(context.Context, string) (int64, error),
) (*UserPage, error) {
	limit, err := pageBounds(offset, limit)
	if err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	users, err := list(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := count(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}
	return &UserPage{
		Users:   summaries,
		Total:   total,
		HasMore: int64(offset+len(users)) < total,
	}, nil
}

// Comments lists a post's comments oldest first.
func (s *Service) Comments(ctx context.Context, postID string, offset, limit int) (*CommentPage, error) {
	limit, err := pageBounds(offset, limit)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Posts.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.store.Comments.ListByPost(ctx, postID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.store.Comments.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		authorIDs = append(authorIDs, c.UserID)
	}
	authors, err := s.store.Users.GetUsers(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		view := CommentView{Comment: c}
		if author, ok := authors[c.UserID]; ok {
			summary := author.Summary()
			view.Author = &summary
		}
		views = append(views, view)
	}
	return &CommentPage{
		Comments: views,
		Total:    total,
		HasMore:  int64(offset+len(comments)) < total,
	}, nil
}

// pageBounds validates offset paging and returns the effective limit.
func pageBounds(offset, limit int) (int, error) {
	if offset < 0 {
		return 0, apperrors.ValidationError("offset", "offset must not be negative")
	}
	if limit == 0 {
		return defaultListLimit, nil
	}
	if limit < 1 || limit > maxListLimit {
		return 0, apperrors.ValidationError("limit", "limit must be between 1 and 50")
	}
	return limit, nil
}
