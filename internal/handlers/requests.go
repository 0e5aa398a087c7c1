package handlers

// UserURI binds the :id segment of user routes.
type UserURI struct {
	ID string `uri:"id" binding:"required"`
}

type PostURI struct {
	ID string `uri:"id" binding:"required"`
}

type NotificationURI struct {
	ID string `uri:"id" binding:"required"`
}

type FeedURI struct {
	View string `uri:"view" binding:"required"`
}

// FeedQuery is the cursor page of a feed view. An absent limit takes the
// default; an explicit one must be in range.
type FeedQuery struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit,default=20" binding:"min=1,max=50"`
}

// ListQuery is an offset page of a follower, following or comment list.
type ListQuery struct {
	Offset int `form:"offset" binding:"omitempty,min=0"`
	Limit  int `form:"limit,default=20" binding:"min=1,max=50"`
}

type NotificationsQuery struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=20" binding:"min=1,max=50"`
}

// Body length and emptiness are checked after normalization, not here.
type CommentRequest struct {
	Body string `json:"body"`
}

type CreatePostRequest struct {
	Body string `json:"body"`
}
