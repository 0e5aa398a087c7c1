package engagement

import (
	"context"

	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
	"github.com/roozanaryal/TwitterClone-sub000/internal/events"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"github.com/roozanaryal/TwitterClone-sub000/internal/notifications"
)

// Follow makes the actor follow the target and notifies the target.
func (s *Service) Follow(ctx context.Context, cmd FollowCommand) (err error) {
	ctx, span := s.start(ctx, "follow", cmd.ActorID, cmd.TargetID)
	defer func() { s.finish("follow", span, err) }()

	if err := s.checkFollow(ctx, cmd); err != nil {
		return err
	}

	follow, err := s.store.Follows.AddFollow(ctx, cmd.ActorID, cmd.TargetID)
	if err != nil {
		return err
	}

	s.invalidate(ctx, feedScope(models.FeedFollowing, cmd.ActorID))
	s.notify(ctx, notifications.Action{
		Kind:        models.NotificationFollow,
		ActorID:     cmd.ActorID,
		RecipientID: cmd.TargetID,
		ActionKey:   notifications.FollowKey(follow.ID),
	})
	s.publish(ctx, events.FollowCreated, cmd.ActorID, cmd.TargetID, nil)
	return nil
}

// Unfollow removes the follow edge. No notification is sent.
func (s *Service) Unfollow(ctx context.Context, cmd FollowCommand) (err error) {
	ctx, span := s.start(ctx, "unfollow", cmd.ActorID, cmd.TargetID)
	defer func() { s.finish("unfollow", span, err) }()

	if err := s.checkFollow(ctx, cmd); err != nil {
		return err
	}

	if err := s.store.Follows.RemoveFollow(ctx, cmd.ActorID, cmd.TargetID); err != nil {
		return err
	}

	s.invalidate(ctx, feedScope(models.FeedFollowing, cmd.ActorID))
	s.publish(ctx, events.FollowDeleted, cmd.ActorID, cmd.TargetID, nil)
	return nil
}

func (s *Service) checkFollow(ctx context.Context, cmd FollowCommand) error {
	if cmd.ActorID == "" {
		return apperrors.Unauthorized("authentication required")
	}
	if cmd.ActorID == cmd.TargetID {
		return apperrors.ErrSelfFollow
	}
	if err := s.requireActor(ctx, cmd.ActorID); err != nil {
		return err
	}
	return s.requireUser(ctx, cmd.TargetID)
}
