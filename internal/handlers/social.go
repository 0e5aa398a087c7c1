package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roozanaryal/TwitterClone-sub000/internal/engagement"
	"github.com/roozanaryal/TwitterClone-sub000/internal/util"
)

// FollowUser makes the caller follow :id.
// POST /api/v1/users/:id/follow
func (h *Handlers) FollowUser(c *gin.Context) {
	h.followAction(c, h.engagement.Follow)
}

// UnfollowUser removes the caller's follow of :id.
// DELETE /api/v1/users/:id/follow
func (h *Handlers) UnfollowUser(c *gin.Context) {
	h.followAction(c, h.engagement.Unfollow)
}

// GET /api/v1/users/:id/followers
func (h *Handlers) GetFollowers(c *gin.Context) {
	h.userList(c, h.engagement.Followers)
}

// GET /api/v1/users/:id/following
func (h *Handlers) GetFollowing(c *gin.Context) {
	h.userList(c, h.engagement.Following)
}

// POST /api/v1/posts/:id/like
func (h *Handlers) LikePost(c *gin.Context) {
	h.postAction(c, h.engagement.Like)
}

// DELETE /api/v1/posts/:id/like
func (h *Handlers) UnlikePost(c *gin.Context) {
	h.postAction(c, h.engagement.Unlike)
}

// POST /api/v1/posts/:id/bookmark
func (h *Handlers) BookmarkPost(c *gin.Context) {
	h.postAction(c, h.engagement.Bookmark)
}

// DELETE /api/v1/posts/:id/bookmark
func (h *Handlers) UnbookmarkPost(c *gin.Context) {
	h.postAction(c, h.engagement.Unbookmark)
}

func (h *Handlers) followAction(c *gin.Context, action func(context.Context, engagement.FollowCommand) error) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	var uri UserURI
	if err := c.ShouldBindUri(&uri); err != nil {
		util.RespondWithError(c, util.BindingError(err))
		return
	}

	if err := action(c.Request.Context(), engagement.FollowCommand{ActorID: userID, TargetID: uri.ID}); err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) postAction(c *gin.Context, action func(context.Context, engagement.PostCommand) error) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	var uri PostURI
	if err := c.ShouldBindUri(&uri); err != nil {
		util.RespondWithError(c, util.BindingError(err))
		return
	}

	if err := action(c.Request.Context(), engagement.PostCommand{ActorID: userID, PostID: uri.ID}); err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) userList(c *gin.Context, list func(context.Context, string, int, int) (*engagement.UserPage, error)) {
	if _, ok := util.GetUserIDFromContext(c); !ok {
		return
	}
	var uri UserURI
	if err := c.ShouldBindUri(&uri); err != nil {
		util.RespondWithError(c, util.BindingError(err))
		return
	}
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		util.RespondWithError(c, util.BindingError(err))
		return
	}

	page, err := list(c.Request.Context(), uri.ID, query.Offset, query.Limit)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
