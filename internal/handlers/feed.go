package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"github.com/roozanaryal/TwitterClone-sub000/internal/timeline"
	"github.com/roozanaryal/TwitterClone-sub000/internal/util"
)

// GetFeed returns one cursor page of a feed view for the caller.
// GET /api/v1/feed/:view?cursor=&limit=
func (h *Handlers) GetFeed(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var uri FeedURI
	if err := c.ShouldBindUri(&uri); err != nil {
		util.RespondWithError(c, util.BindingError(err))
		return
	}
	var query FeedQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		util.RespondWithError(c, util.BindingError(err))
		return
	}

	page, err := h.timeline.GetFeed(c.Request.Context(), timeline.FeedRequest{
		View:     models.FeedView(uri.View),
		ViewerID: userID,
		Cursor:   query.Cursor,
		Limit:    query.Limit,
	})
	if err != nil {
		util.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
