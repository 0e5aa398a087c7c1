package timeline

import (
	"context"

	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"golang.org/x/sync/errgroup"
)

// enrich attaches owner cards, engagement counts and the viewer's own
// like and bookmark flags. Each lookup is one batched query; they run
// concurrently.
func (a *Assembler) enrich(ctx context.Context, viewerID string, posts []*models.Post) ([]PostView, error) {
	views := make([]PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	postIDs := make([]string, 0, len(posts))
	ownerIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		ownerIDs = append(ownerIDs, p.UserID)
	}

	var (
		owners     map[string]*models.User
		likes      map[string]int64
		comments   map[string]int64
		bookmarks  map[string]int64
		liked      map[string]bool
		bookmarked map[string]bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		owners, err = a.store.Users.GetUsers(gctx, ownerIDs)
		return err
	})
	g.Go(func() (err error) {
		likes, err = a.store.Likes.CountByPosts(gctx, postIDs)
		return err
	})
	g.Go(func() (err error) {
		comments, err = a.store.Comments.CountByPosts(gctx, postIDs)
		return err
	})
	g.Go(func() (err error) {
		bookmarks, err = a.store.Bookmarks.CountByPosts(gctx, postIDs)
		return err
	})
	g.Go(func() (err error) {
		liked, err = a.store.Likes.LikedPostIDs(gctx, viewerID, postIDs)
		return err
	})
	g.Go(func() (err error) {
		bookmarked, err = a.store.Bookmarks.BookmarkedPostIDs(gctx, viewerID, postIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range posts {
		owner := models.UserSummary{ID: p.UserID}
		if u, ok := owners[p.UserID]; ok {
			owner = u.Summary()
		}
		views = append(views, PostView{
			ID:                 p.ID,
			Body:               p.Body,
			CreatedAt:          p.CreatedAt,
			Owner:              owner,
			LikeCount:          likes[p.ID],
			CommentCount:       comments[p.ID],
			BookmarkCount:      bookmarks[p.ID],
			LikedByViewer:      liked[p.ID],
			BookmarkedByViewer: bookmarked[p.ID],
		})
	}
	return views, nil
}
