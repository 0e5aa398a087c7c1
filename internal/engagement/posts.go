package engagement

import (
	"context"

	"github.com/roozanaryal/TwitterClone-sub000/internal/cache"
	"github.com/roozanaryal/TwitterClone-sub000/internal/events"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"github.com/roozanaryal/TwitterClone-sub000/internal/notifications"
	"github.com/roozanaryal/TwitterClone-sub000/internal/repository"
)

type postPayload struct {
	OwnerID string `json:"ownerId"`
}

// Like records the actor's like and notifies the post owner.
func (s *Service) Like(ctx context.Context, cmd PostCommand) (err error) {
	ctx, span := s.start(ctx, "like", cmd.ActorID, cmd.PostID)
	defer func() { s.finish("like", span, err) }()

	post, err := s.targetPost(ctx, cmd.ActorID, cmd.PostID)
	if err != nil {
		return err
	}

	like, err := s.store.Likes.AddLike(ctx, post.ID, cmd.ActorID)
	if err != nil {
		return err
	}

	s.invalidate(ctx, postScopes(cmd.ActorID, post.UserID)...)
	s.notify(ctx, notifications.Action{
		Kind:        models.NotificationLike,
		ActorID:     cmd.ActorID,
		RecipientID: post.UserID,
		PostID:      post.ID,
		ActionKey:   notifications.LikeKey(like.ID),
	})
	s.publish(ctx, events.LikeCreated, cmd.ActorID, post.ID, postPayload{OwnerID: post.UserID})
	return nil
}

func (s *Service) Unlike(ctx context.Context, cmd PostCommand) (err error) {
	ctx, span := s.start(ctx, "unlike", cmd.ActorID, cmd.PostID)
	defer func() { s.finish("unlike", span, err) }()

	post, err := s.targetPost(ctx, cmd.ActorID, cmd.PostID)
	if err != nil {
		return err
	}
	if err := s.store.Likes.RemoveLike(ctx, post.ID, cmd.ActorID); err != nil {
		return err
	}

	s.invalidate(ctx, postScopes(cmd.ActorID, post.UserID)...)
	s.publish(ctx, events.LikeDeleted, cmd.ActorID, post.ID, postPayload{OwnerID: post.UserID})
	return nil
}

// Bookmark saves the post to the actor's bookmarks view.
func (s *Service) Bookmark(ctx context.Context, cmd PostCommand) (err error) {
	ctx, span := s.start(ctx, "bookmark", cmd.ActorID, cmd.PostID)
	defer func() { s.finish("bookmark", span, err) }()

	post, err := s.targetPost(ctx, cmd.ActorID, cmd.PostID)
	if err != nil {
		return err
	}
	if _, err := s.store.Bookmarks.AddBookmark(ctx, cmd.ActorID, post.ID); err != nil {
		return err
	}

	s.invalidate(ctx, feedScope(models.FeedBookmarks, cmd.ActorID))
	s.publish(ctx, events.BookmarkCreated, cmd.ActorID, post.ID, postPayload{OwnerID: post.UserID})
	return nil
}

func (s *Service) Unbookmark(ctx context.Context, cmd PostCommand) (err error) {
	ctx, span := s.start(ctx, "unbookmark", cmd.ActorID, cmd.PostID)
	defer func() { s.finish("unbookmark", span, err) }()

	post, err := s.targetPost(ctx, cmd.ActorID, cmd.PostID)
	if err != nil {
		return err
	}
	if err := s.store.Bookmarks.RemoveBookmark(ctx, cmd.ActorID, post.ID); err != nil {
		return err
	}

	s.invalidate(ctx, feedScope(models.FeedBookmarks, cmd.ActorID))
	s.publish(ctx, events.BookmarkDeleted, cmd.ActorID, post.ID, postPayload{OwnerID: post.UserID})
	return nil
}

// Comment appends a comment and notifies the post owner.
func (s *Service) Comment(ctx context.Context, cmd CommentCommand) (comment *models.Comment, err error) {
	ctx, span := s.start(ctx, "comment", cmd.ActorID, cmd.PostID)
	defer func() { s.finish("comment", span, err) }()

	post, err := s.targetPost(ctx, cmd.ActorID, cmd.PostID)
	if err != nil {
		return nil, err
	}

	comment, err = s.store.Comments.AppendComment(ctx, post.ID, cmd.ActorID, cmd.Body)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, postScopes(cmd.ActorID, post.UserID)...)
	s.notify(ctx, notifications.Action{
		Kind:        models.NotificationComment,
		ActorID:     cmd.ActorID,
		RecipientID: post.UserID,
		PostID:      post.ID,
		CommentID:   comment.ID,
		ActionKey:   notifications.CommentKey(comment.ID),
	})
	s.publish(ctx, events.CommentCreated, cmd.ActorID, post.ID, postPayload{OwnerID: post.UserID})
	return comment, nil
}

// CreatePost stores a new post. It is visible in the author's views and
// the global view on the next read.
func (s *Service) CreatePost(ctx context.Context, cmd PostBodyCommand) (post *models.Post, err error) {
	ctx, span := s.start(ctx, "post", cmd.ActorID, "")
	defer func() { s.finish("post", span, err) }()

	if err := s.requireActor(ctx, cmd.ActorID); err != nil {
		return nil, err
	}
	body, err := repository.NormalizeBody(cmd.Body)
	if err != nil {
		return nil, err
	}

	post = &models.Post{UserID: cmd.ActorID, Body: body}
	if err := s.store.Posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	s.invalidate(ctx,
		feedScope(models.FeedGlobal, cache.AllViewers),
		feedScope(models.FeedOwn, cmd.ActorID),
		feedScope(models.FeedFollowing, cache.AllViewers),
	)
	s.publish(ctx, events.PostCreated, cmd.ActorID, post.ID, nil)
	return post, nil
}

// targetPost checks the actor and loads the post being acted on.
func (s *Service) targetPost(ctx context.Context, actorID, postID string) (*models.Post, error) {
	if err := s.requireActor(ctx, actorID); err != nil {
		return nil, err
	}
	return s.store.Posts.GetPost(ctx, postID)
}
