package timeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/roozanaryal/TwitterClone-sub000/internal/cache"
	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"github.com/roozanaryal/TwitterClone-sub000/internal/repository"
	"github.com/roozanaryal/TwitterClone-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// memoryCache is a FeedCache over a map.
type memoryCache struct {
	mu    sync.Mutex
	pages map[string][]byte
	sets  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{pages: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.pages[key]
	return data, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, page []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[key] = page
	m.sets++
	return nil
}

func (m *memoryCache) Invalidate(context.Context, ...cache.Scope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = map[string][]byte{}
	return nil
}

// flakyPosts fails the first failures feed queries.
type flakyPosts struct {
	repository.PostRepository
	failures int
	err      error
	calls    int
}

func (f *flakyPosts) FeedPage(ctx context.Context, q repository.FeedQuery) ([]*models.Post, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.PostRepository.FeedPage(ctx, q)
}

type TimelineTestSuite struct {
	suite.Suite
	db        *gorm.DB
	store     *repository.Store
	assembler *Assembler
	ctx       context.Context
	alice     *models.User
	bob       *models.User
	carol     *models.User
}

func (s *TimelineTestSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.store = repository.NewStore(s.db)
	s.assembler = NewAssembler(s.store, nil)
	s.ctx = context.Background()
	s.alice = testutil.CreateUser(s.T(), s.db, "alice")
	s.bob = testutil.CreateUser(s.T(), s.db, "bob")
	s.carol = testutil.CreateUser(s.T(), s.db, "carol")
}

func TestTimelineTestSuite(t *testing.T) {
	suite.Run(t, new(TimelineTestSuite))
}

// seed creates n posts for owner, one minute apart, the newest at
// BaseTime.
func (s *TimelineTestSuite) seed(owner *models.User, n int) []*models.Post {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		at := testutil.BaseTime.Add(-time.Duration(i) * time.Minute)
		posts = append(posts, testutil.CreatePost(s.T(), s.db, owner.ID, fmt.Sprintf("%s #%d", owner.Username, i), at))
	}
	return posts
}

func postIDs(views []PostView) []string {
	ids := make([]string, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	return ids
}

func (s *TimelineTestSuite) TestEmptyFirstPage() {
	t := s.T()

	page, err := s.assembler.GetFeed(s.ctx, FeedRequest{View: models.FeedGlobal, ViewerID: s.alice.ID})
	require.NoError(t, err)
	assert.True(t, page.NoContentYet)
	assert.NotNil(t, page.Posts)
	assert.Empty(t, page.Posts)
	assert.Nil(t, page.NextCursor)
}

func (s *TimelineTestSuite) TestPaginationChainsCursors() {
	t := s.T()

	created := s.seed(s.bob, 5)

	var seen []string
	cursor := ""
	pages := 0
	for {
		page, err := s.assembler.GetFeed(s.ctx, FeedRequest{
			View:     models.FeedGlobal,
			ViewerID: s.alice.ID,
			Cursor:   cursor,
			Limit:    2,
		})
		require.NoError(t, err)
		assert.False(t, page.NoContentYet)
		pages++
		seen = append(seen, postIDs(page.Posts)...)
		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
		require.Less(t, pages, 10)
	}

	// 2 + 2 + 1; the short last page ends the chain.
	assert.Equal(t, 3, pages)
	want := make([]string, 0, len(created))
	for _, p := range created {
		want = append(want, p.ID)
	}
	assert.Equal(t, want, seen)
}

func (s *TimelineTestSuite) TestExactMultipleEndsWithEmptyPage() {
	t := s.T()

	s.seed(s.bob, 2)

	page, err := s.assembler.GetFeed(s.ctx, FeedRequest{View: models.FeedGlobal, ViewerID: s.alice.ID, Limit: 2})
	require.NoError(t, err)
	require.NotNil(t, page.NextCursor)

	last, err := s.assembler.GetFeed(s.ctx, FeedRequest{View: models.FeedGlobal, ViewerID: s.alice.ID, Limit: 2, Cursor: *page.NextCursor})
	require.NoError(t, err)
	assert.Empty(t, last.Posts)
	assert.Nil(t, last.NextCursor)
	assert.False(t, last.NoContentYet)
}

func (s *TimelineTestSuite) drain(limit int) []string {
	var seen []string
	cursor := ""
	for pages := 0; ; pages++ {
		require.Less(s.T(), pages, 20)
		page, err := s.assembler.GetFeed(s.ctx, FeedRequest{
			View:     models.FeedGlobal,
			ViewerID: s.alice.ID,
			Cursor:   cursor,
			Limit:    limit,
		})
		require.NoError(s.T(), err)
		seen = append(seen, postIDs(page.Posts)...)
		if page.NextCursor == nil {
			return seen
		}
		cursor = *page.NextCursor
	}
}

func (s *TimelineTestSuite) TestPaginationWithTiedTimestamps() {
	t := s.T()

	var tied []*models.Post
	for i, owner := range []*models.User{s.alice, s.bob, s.carol, s.bob, s.alice} {
		tied = append(tied, testutil.CreatePost(t, s.db, owner.ID, fmt.Sprintf("tied #%d", i), testutil.BaseTime))
	}
	older := testutil.CreatePost(t, s.db, s.carol.ID, "older", testutil.BaseTime.Add(-time.Minute))

	want := make([]string, 0, len(tied)+1)
	for _, p := range tied {
		want = append(want, p.ID)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(want)))
	want = append(want, older.ID)

	for _, limit := range []int{1, 2, 3} {
		assert.Equal(t, want, s.drain(limit), "limit %d", limit)
	}
}

func (s *TimelineTestSuite) TestBareTimestampCursor() {
	t := s.T()

	posts := s.seed(s.bob, 3)

	page, err := s.assembler.GetFeed(s.ctx, FeedRequest{
		View:     models.FeedGlobal,
		ViewerID: s.alice.ID,
		Cursor:   posts[0].CreatedAt.Format(time.RFC3339Nano),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{posts[1].ID, posts[2].ID}, postIDs(page.Posts))
}

func (s *TimelineTestSuite) TestFollowingView() {
	t := s.T()

	bobPosts := s.seed(s.bob, 2)
	carolPosts := s.seed(s.carol, 1)
	alicePost := testutil.CreatePost(t, s.db, s.alice.ID, "mine", testutil.BaseTime.Add(time.Second))

	_, err := s.store.Follows.AddFollow(s.ctx, s.alice.ID, s.bob.ID)
	require.NoError(t, err)

	page, err := s.assembler.GetFeed(s.ctx, FeedRequest{View: models.FeedFollowing, ViewerID: s.alice.ID})
	require.NoError(t, err)

	ids := postIDs(page.Posts)
	assert.Equal(t, []string{alicePost.ID, bobPosts[0].ID, bobPosts[1].ID}, ids)
	assert.NotContains(t, ids, carolPosts[0].ID)
}

func (s *TimelineTestSuite) TestFollowingViewWithoutFollowsShowsOwnPosts() {
	t := s.T()

	mine := s.seed(s.alice, 2)
	s.seed(s.bob, 2)

	page, err := s.assembler.GetFeed(s.ctx, FeedRequest{View: models.FeedFollowing, ViewerID: s.alice.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{mine[0].ID, mine[1].ID}, postIDs(page.Posts))
	assert.False(t, page.NoContentYet)
}

func (s *TimelineTestSuite) TestEmptyBookmarksView() {
	t := s.T()

	s.seed(s.bob, 2)

	page, err := s.assembler.GetFeed(s.ctx, FeedRequest{View: models.FeedBookmarks, ViewerID: s.alice.ID})
	require.NoError(t, err)
	assert.NotNil(t, page.Posts)
	assert.Empty(t, page.Posts)
	assert.True(t, page.NoContentYet)
	assert.Nil(t, page.NextCursor)
}

func (s *TimelineTestSuite) TestOwnAndBookmarksViews() {
	t := s.T()

	bobPosts := s.seed(s.bob, 3)
	s.seed(s.alice, 1)

	own, err := s.assembler.GetFeed(s.ctx, FeedRequest{View: models.FeedOwn, ViewerID: s.bob.ID})
	require.NoError(t, err)
	assert.Len(t, own.Posts, 3)

	// Bookmark oldest first; the view still orders by post time.
	_, err = s.store.Bookmarks.AddBookmark(s.ctx, s.alice.ID, bobPosts[2].ID)
	require.NoError(t, err)
	_, err = s.store.Bookmarks.AddBookmark(s.ctx, s.alice.ID, bobPosts[0].ID)
	require.NoError(t, err)

	marks, err := s.assembler.GetFeed(s.ctx, FeedRequest{View: models.FeedBookmarks, ViewerID: s.alice.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{bobPosts[0].ID, bobPosts[2].ID}, postIDs(marks.Posts))
	for _, p := range marks.Posts {
		assert.True(t, p.BookmarkedByViewer)
		assert.Equal(t, int64(1), p.BookmarkCount)
	}
}

func (s *TimelineTestSuite) TestEnrichment() {
	t := s.T()

	post := s.seed(s.bob, 1)[0]
	_, err := s.store.Likes.AddLike(s.ctx, post.ID, s.alice.ID)
	require.NoError(t, err)
	_, err = s.store.Likes.AddLike(s.ctx, post.ID, s.carol.ID)
	require.NoError(t, err)
	_, err = s.store.Comments.AppendComment(s.ctx, post.ID, s.carol.ID, "hi")
	require.NoError(t, err)

	page, err := s.assembler.GetFeed(s.ctx, FeedRequest{View: models.FeedGlobal, ViewerID: s.alice.ID})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)

	view := page.Posts[0]
	assert.Equal(t, "bob", view.Owner.Username)
	assert.Equal(t, s.bob.ID, view.Owner.ID)
	assert.Equal(t, int64(2), view.LikeCount)
	assert.Equal(t, int64(1), view.CommentCount)
	assert.Zero(t, view.BookmarkCount)
	assert.True(t, view.LikedByViewer)
	assert.False(t, view.BookmarkedByViewer)

	bobView, err := s.assembler.GetFeed(s.ctx, FeedRequest{View: models.FeedGlobal, ViewerID: s.bob.ID})
	require.NoError(t, err)
	assert.False(t, bobView.Posts[0].LikedByViewer)
}

func (s *TimelineTestSuite) TestValidation() {
	t := s.T()

	tests := []struct {
		name  string
		req   FeedRequest
		field string
	}{
		{"unknown view", FeedRequest{View: "trending", ViewerID: s.alice.ID}, "view"},
		{"limit too large", FeedRequest{View: models.FeedGlobal, ViewerID: s.alice.ID, Limit: 51}, "limit"},
		{"negative limit", FeedRequest{View: models.FeedGlobal, ViewerID: s.alice.ID, Limit: -1}, "limit"},
		{"bad cursor", FeedRequest{View: models.FeedGlobal, ViewerID: s.alice.ID, Cursor: "yesterday"}, "cursor"},
		{"bad cursor post id", FeedRequest{View: models.FeedGlobal, ViewerID: s.alice.ID, Cursor: "2024-03-01T12:00:00Z_abc"}, "cursor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.assembler.GetFeed(s.ctx, tt.req)
			require.Error(t, err)
			apiErr := apperrors.From(err)
			assert.Equal(t, apperrors.KindValidation, apiErr.Kind)
			assert.Equal(t, tt.field, apiErr.Field)
		})
	}

	_, err := s.assembler.GetFeed(s.ctx, FeedRequest{View: models.FeedGlobal})
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func (s *TimelineTestSuite) TestRetriesOnceOnStoreError() {
	t := s.T()

	s.seed(s.bob, 1)
	flaky := &flakyPosts{PostRepository: s.store.Posts, failures: 1, err: apperrors.Store(errors.New("connection reset"))}
	store := *s.store
	store.Posts = flaky
	assembler := NewAssembler(&store, nil)

	page, err := assembler.GetFeed(s.ctx, FeedRequest{View: models.FeedGlobal, ViewerID: s.alice.ID})
	require.NoError(t, err)
	assert.Len(t, page.Posts, 1)
	assert.Equal(t, 2, flaky.calls)

	flaky.calls, flaky.failures = 0, 2
	_, err = assembler.GetFeed(s.ctx, FeedRequest{View: models.FeedGlobal, ViewerID: s.alice.ID})
	assert.True(t, apperrors.IsKind(err, apperrors.KindStore))
	assert.Equal(t, 2, flaky.calls)
}

func (s *TimelineTestSuite) TestDoesNotRetryTimeouts() {
	t := s.T()

	flaky := &flakyPosts{PostRepository: s.store.Posts, failures: 1, err: apperrors.Store(context.DeadlineExceeded)}
	store := *s.store
	store.Posts = flaky

	_, err := NewAssembler(&store, nil).GetFeed(s.ctx, FeedRequest{View: models.FeedGlobal, ViewerID: s.alice.ID})
	assert.True(t, apperrors.IsTimeout(err))
	assert.Equal(t, 1, flaky.calls)
}

func (s *TimelineTestSuite) TestCachedPagesArePerViewer() {
	t := s.T()

	post := s.seed(s.bob, 1)[0]
	mem := newMemoryCache()
	assembler := NewAssembler(s.store, mem)

	first, err := assembler.GetFeed(s.ctx, FeedRequest{View: models.FeedGlobal, ViewerID: s.alice.ID})
	require.NoError(t, err)
	assert.False(t, first.Posts[0].LikedByViewer)

	// Carol likes the post after alice's page was cached. Carol must get a
	// page built for her, not alice's.
	_, err = s.store.Likes.AddLike(s.ctx, post.ID, s.carol.ID)
	require.NoError(t, err)

	carolPage, err := assembler.GetFeed(s.ctx, FeedRequest{View: models.FeedGlobal, ViewerID: s.carol.ID})
	require.NoError(t, err)
	assert.True(t, carolPage.Posts[0].LikedByViewer)

	// Alice is served her cached page until it is invalidated.
	cached, err := assembler.GetFeed(s.ctx, FeedRequest{View: models.FeedGlobal, ViewerID: s.alice.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), cached.Posts[0].LikeCount)
	assert.Equal(t, 2, mem.sets)

	require.NoError(t, mem.Invalidate(s.ctx))
	fresh, err := assembler.GetFeed(s.ctx, FeedRequest{View: models.FeedGlobal, ViewerID: s.alice.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh.Posts[0].LikeCount)
}
