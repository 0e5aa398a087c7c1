package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roozanaryal/TwitterClone-sub000/internal/util"
)

// GetNotifications gets the caller's notifications, newest first
// GET /api/v1/notifications?page=&limit=
func (h *Handlers) GetNotifications(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	var query NotificationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		util.RespondWithError(c, util.BindingError(err))
		return
	}

	page, err := h.inbox.List(c.Request.Context(), userID, query.Page, query.Limit)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetUnreadCount gets just the unread count for badge display
// GET /api/v1/notifications/unread-count
func (h *Handlers) GetUnreadCount(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	unread, err := h.inbox.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": unread})
}

// MarkNotificationRead marks one notification as read
// POST /api/v1/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	var uri NotificationURI
	if err := c.ShouldBindUri(&uri); err != nil {
		util.RespondWithError(c, util.BindingError(err))
		return
	}

	if err := h.inbox.MarkRead(c.Request.Context(), userID, uri.ID); err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllNotificationsRead marks every unread notification as read
// POST /api/v1/notifications/read-all
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	updated, err := h.inbox.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": updated})
}

// DELETE /api/v1/notifications/:id
func (h *Handlers) DeleteNotification(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	var uri NotificationURI
	if err := c.ShouldBindUri(&uri); err != nil {
		util.RespondWithError(c, util.BindingError(err))
		return
	}

	if err := h.inbox.Delete(c.Request.Context(), userID, uri.ID); err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
