package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"github.com/roozanaryal/TwitterClone-sub000/internal/repository"
	"github.com/roozanaryal/TwitterClone-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type recordingSink struct {
	delivered []*models.Notification
	err       error
}

func (r *recordingSink) Name() string { return "recording" }

func (r *recordingSink) Deliver(_ context.Context, n *models.Notification) error {
	r.delivered = append(r.delivered, n)
	return r.err
}

type failingNotifications struct {
	repository.NotificationRepository
}

func (failingNotifications) Create(context.Context, *models.Notification) (bool, error) {
	return false, apperrors.Store(errors.New("connection reset"))
}

type NotificationsTestSuite struct {
	suite.Suite
	db      *gorm.DB
	store   *repository.Store
	sink    *recordingSink
	emitter *Emitter
	inbox   *Inbox
	ctx     context.Context
	alice   *models.User
	bob     *models.User
	post    *models.Post
}

func (s *NotificationsTestSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.store = repository.NewStore(s.db)
	s.sink = &recordingSink{}
	s.emitter = NewEmitter(s.store.Users, s.store.Notifications, time.Second, s.sink)
	s.inbox = NewInbox(s.store.Notifications)
	s.ctx = context.Background()
	s.alice = testutil.CreateUser(s.T(), s.db, "alice")
	s.alice.DisplayName = "Alice Liddell"
	require.NoError(s.T(), s.db.Save(s.alice).Error)
	s.bob = testutil.CreateUser(s.T(), s.db, "bob")
	s.post = testutil.CreatePost(s.T(), s.db, s.bob.ID, "hello", testutil.BaseTime)
}

func TestNotificationsTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationsTestSuite))
}

func (s *NotificationsTestSuite) like(key string) *models.Notification {
	return s.emitter.Emit(s.ctx, Action{
		Kind:        models.NotificationLike,
		ActorID:     s.alice.ID,
		RecipientID: s.bob.ID,
		PostID:      s.post.ID,
		ActionKey:   LikeKey(key),
	})
}

func (s *NotificationsTestSuite) TestEmitLike() {
	t := s.T()

	n := s.like("l1")
	require.NotNil(t, n)
	assert.Equal(t, "Alice Liddell liked your post", n.Message)
	assert.Equal(t, s.bob.ID, n.RecipientID)
	require.NotNil(t, n.PostID)
	assert.Equal(t, s.post.ID, *n.PostID)
	assert.Nil(t, n.CommentID)
	assert.False(t, n.IsRead)

	require.Len(t, s.sink.delivered, 1)
	assert.Equal(t, n.ID, s.sink.delivered[0].ID)
}

func (s *NotificationsTestSuite) TestEmitMessages() {
	t := s.T()

	// Without a display name the handle is used.
	s.bob.DisplayName = ""
	require.NoError(t, s.db.Save(s.bob).Error)

	tests := []struct {
		action  Action
		message string
	}{
		{Action{Kind: models.NotificationFollow, ActorID: s.bob.ID, RecipientID: s.alice.ID, ActionKey: FollowKey("f1")}, "@bob started following you"},
		{Action{Kind: models.NotificationComment, ActorID: s.bob.ID, RecipientID: s.alice.ID, PostID: s.post.ID, CommentID: "c1", ActionKey: CommentKey("c1")}, "@bob commented on your post"},
	}
	for _, tt := range tests {
		n := s.emitter.Emit(s.ctx, tt.action)
		require.NotNil(t, n, tt.action.Kind)
		assert.Equal(t, tt.message, n.Message)
	}
}

func (s *NotificationsTestSuite) TestEmitSelfActionIsNoop() {
	t := s.T()

	n := s.emitter.Emit(s.ctx, Action{
		Kind:        models.NotificationLike,
		ActorID:     s.bob.ID,
		RecipientID: s.bob.ID,
		PostID:      s.post.ID,
		ActionKey:   LikeKey("self"),
	})
	assert.Nil(t, n)

	count, err := s.store.Notifications.CountByRecipient(s.ctx, s.bob.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, s.sink.delivered)
}

func (s *NotificationsTestSuite) TestEmitIsIdempotentPerAction() {
	t := s.T()

	require.NotNil(t, s.like("l1"))
	assert.Nil(t, s.like("l1"))
	require.NotNil(t, s.like("l2"))

	count, err := s.store.Notifications.CountByRecipient(s.ctx, s.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Len(t, s.sink.delivered, 2)
}

func (s *NotificationsTestSuite) TestEmitSurvivesCanceledRequest() {
	t := s.T()

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	n := s.emitter.Emit(ctx, Action{
		Kind:        models.NotificationFollow,
		ActorID:     s.alice.ID,
		RecipientID: s.bob.ID,
		ActionKey:   FollowKey("f1"),
	})
	assert.NotNil(t, n)
}

func (s *NotificationsTestSuite) TestEmitSwallowsFailures() {
	t := s.T()

	emitter := NewEmitter(s.store.Users, failingNotifications{s.store.Notifications}, 0, s.sink)
	assert.NotPanics(t, func() {
		assert.Nil(t, emitter.Emit(s.ctx, Action{
			Kind:        models.NotificationFollow,
			ActorID:     s.alice.ID,
			RecipientID: s.bob.ID,
			ActionKey:   FollowKey("f1"),
		}))
	})
	assert.Empty(t, s.sink.delivered)

	s.sink.err = errors.New("mirror down")
	assert.NotNil(t, s.like("l1"))
}

func (s *NotificationsTestSuite) TestEmitDropsMalformedAction() {
	t := s.T()

	assert.Nil(t, s.emitter.Emit(s.ctx, Action{Kind: "poke", ActorID: s.alice.ID, RecipientID: s.bob.ID, ActionKey: "poke:1"}))
	assert.Nil(t, s.emitter.Emit(s.ctx, Action{Kind: models.NotificationLike, ActorID: s.alice.ID, RecipientID: s.bob.ID}))
}

func (s *NotificationsTestSuite) TestInboxPaging() {
	t := s.T()

	for i := 0; i < 3; i++ {
		require.NotNil(t, s.like(string(rune('a'+i))))
	}

	page, err := s.inbox.List(s.ctx, s.bob.ID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 2)
	assert.Equal(t, int64(3), page.Total)
	assert.True(t, page.HasMore)

	page, err = s.inbox.List(s.ctx, s.bob.ID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 1)
	assert.False(t, page.HasMore)

	empty, err := s.inbox.List(s.ctx, s.alice.ID, 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, empty.Notifications)
	assert.Empty(t, empty.Notifications)
}

func (s *NotificationsTestSuite) TestInboxValidation() {
	t := s.T()

	_, err := s.inbox.List(s.ctx, s.bob.ID, -1, 10)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = s.inbox.List(s.ctx, s.bob.ID, 1, 51)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func (s *NotificationsTestSuite) TestInboxReadState() {
	t := s.T()

	first := s.like("l1")
	require.NotNil(t, s.like("l2"))

	unread, err := s.inbox.UnreadCount(s.ctx, s.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	require.NoError(t, s.inbox.MarkRead(s.ctx, s.bob.ID, first.ID))
	err = s.inbox.MarkRead(s.ctx, s.alice.ID, first.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	updated, err := s.inbox.MarkAllRead(s.ctx, s.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	require.NoError(t, s.inbox.Delete(s.ctx, s.bob.ID, first.ID))
	err = s.inbox.Delete(s.ctx, s.bob.ID, first.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
