package repository

import "gorm.io/gorm"

// Store groups the repositories that make up the relationship store.
type Store struct {
	Users         UserRepository
	Posts         PostRepository
	Follows       FollowRepository
	Likes         LikeRepository
	Bookmarks     BookmarkRepository
	Comments      CommentRepository
	Notifications NotificationRepository
}

// NewStore builds every repository over one connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Users:         NewUserRepository(db),
		Posts:         NewPostRepository(db),
		Follows:       NewFollowRepository(db),
		Likes:         NewLikeRepository(db),
		Bookmarks:     NewBookmarkRepository(db),
		Comments:      NewCommentRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}
