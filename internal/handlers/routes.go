package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API on api. authed runs on every route;
// writeLimit runs additionally on routes that change state and may be nil.
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup, authed gin.HandlerFunc, writeLimit gin.HandlerFunc) {
	api.Use(authed)

	write := []gin.HandlerFunc{}
	if writeLimit != nil {
		write = append(write, writeLimit)
	}
	with := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, write...), handler)
	}

	api.GET("/feed/:view", h.GetFeed)

	users := api.Group("/users")
	{
		users.POST("/:id/follow", with(h.FollowUser)...)
		users.DELETE("/:id/follow", with(h.UnfollowUser)...)
		users.GET("/:id/followers", h.GetFollowers)
		users.GET("/:id/following", h.GetFollowing)
	}

	posts := api.Group("/posts")
	{
		posts.POST("", with(h.CreatePost)...)
		posts.POST("/:id/like", with(h.LikePost)...)
		posts.DELETE("/:id/like", with(h.UnlikePost)...)
		posts.POST("/:id/bookmark", with(h.BookmarkPost)...)
		posts.DELETE("/:id/bookmark", with(h.UnbookmarkPost)...)
		posts.POST("/:id/comments", with(h.CreateComment)...)
		posts.GET("/:id/comments", h.GetComments)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.GetNotifications)
		notifications.GET("/unread-count", h.GetUnreadCount)
		notifications.POST("/read-all", h.MarkAllNotificationsRead)
		notifications.POST("/:id/read", h.MarkNotificationRead)
		notifications.DELETE("/:id", h.DeleteNotification)
	}
}
