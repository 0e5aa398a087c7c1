package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roozanaryal/TwitterClone-sub000/internal/engagement"
	"github.com/roozanaryal/TwitterClone-sub000/internal/util"
)

// CreatePost publishes a post for the caller.
// POST /api/v1/posts
func (h *Handlers) CreatePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, util.BindingError(err))
		return
	}

	post, err := h.engagement.CreatePost(c.Request.Context(), engagement.PostBodyCommand{ActorID: userID, Body: req.Body})
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "post": post})
}

// CreateComment appends a comment to :id and notifies the post owner.
// POST /api/v1/posts/:id/comments
func (h *Handlers) CreateComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	var uri PostURI
	if err := c.ShouldBindUri(&uri); err != nil {
		util.RespondWithError(c, util.BindingError(err))
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, util.BindingError(err))
		return
	}

	comment, err := h.engagement.Comment(c.Request.Context(), engagement.CommentCommand{
		ActorID: userID,
		PostID:  uri.ID,
		Body:    req.Body,
	})
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "comment": comment})
}

// GetComments lists the comments on :id, oldest first.
// GET /api/v1/posts/:id/comments?offset=&limit=
func (h *Handlers) GetComments(c *gin.Context) {
	if _, ok := util.GetUserIDFromContext(c); !ok {
		return
	}
	var uri PostURI
	if err := c.ShouldBindUri(&uri); err != nil {
		util.RespondWithError(c, util.BindingError(err))
		return
	}
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		util.RespondWithError(c, util.BindingError(err))
		return
	}

	page, err := h.engagement.Comments(c.Request.Context(), uri.ID, query.Offset, query.Limit)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
