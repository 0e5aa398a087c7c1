package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/roozanaryal/TwitterClone-sub000/internal/engagement"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"github.com/roozanaryal/TwitterClone-sub000/internal/notifications"
	"github.com/roozanaryal/TwitterClone-sub000/internal/timeline"
	"github.com/spf13/cobra"
)

var (
	feedCursor string
	pageLimit  int
	pageOffset int
	pageNumber int
)

var feedCmd = &cobra.Command{
	Use:       "feed [global|following|own|bookmarks]",
	Short:     "Show one page of a feed",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"global", "following", "own", "bookmarks"},
	RunE: func(cmd *cobra.Command, args []string) error {
		view := string(models.FeedGlobal)
		if len(args) == 1 {
			view = args[0]
		}
		var page timeline.FeedPage
		if err := call(http.MethodGet, "/api/v1/feed/"+view, limitQuery(map[string]string{"cursor": feedCursor}), nil, &page); err != nil {
			return err
		}
		if output != "json" {
			printFeed(&page)
		}
		return nil
	},
}

var followCmd = actionCmd("follow <user-id>", "Follow a user", http.MethodPost, "/api/v1/users/%s/follow", "Now following %s")
var unfollowCmd = actionCmd("unfollow <user-id>", "Stop following a user", http.MethodDelete, "/api/v1/users/%s/follow", "Unfollowed %s")
var likeCmd = actionCmd("like <post-id>", "Like a post", http.MethodPost, "/api/v1/posts/%s/like", "Liked %s")
var unlikeCmd = actionCmd("unlike <post-id>", "Remove a like", http.MethodDelete, "/api/v1/posts/%s/like", "Unliked %s")
var bookmarkCmd = actionCmd("bookmark <post-id>", "Bookmark a post", http.MethodPost, "/api/v1/posts/%s/bookmark", "Bookmarked %s")
var unbookmarkCmd = actionCmd("unbookmark <post-id>", "Remove a bookmark", http.MethodDelete, "/api/v1/posts/%s/bookmark", "Removed bookmark on %s")

var followersCmd = userListCmd("followers <user-id>", "List a user's followers", "/api/v1/users/%s/followers")
var followingCmd = userListCmd("following <user-id>", "List who a user follows", "/api/v1/users/%s/following")

var postCmd = &cobra.Command{
	Use:   "post <body>",
	Short: "Publish a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Post models.Post `json:"post"`
		}
		if err := call(http.MethodPost, "/api/v1/posts", nil, map[string]string{"body": args[0]}, &resp); err != nil {
			return err
		}
		if output != "json" {
			printSuccess("Posted %s", resp.Post.ID)
		}
		return nil
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment <post-id> <body>",
	Short: "Comment on a post",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Comment models.Comment `json:"comment"`
		}
		path := fmt.Sprintf("/api/v1/posts/%s/comments", args[0])
		if err := call(http.MethodPost, path, nil, map[string]string{"body": args[1]}, &resp); err != nil {
			return err
		}
		if output != "json" {
			printSuccess("Commented %s", resp.Comment.ID)
		}
		return nil
	},
}

var commentsCmd = &cobra.Command{
	Use:   "comments <post-id>",
	Short: "List comments on a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var page engagement.CommentPage
		path := fmt.Sprintf("/api/v1/posts/%s/comments", args[0])
		if err := call(http.MethodGet, path, offsetQuery(), nil, &page); err != nil {
			return err
		}
		if output != "json" {
			printComments(&page)
		}
		return nil
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List notifications, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		var page notifications.Page
		query := limitQuery(map[string]string{})
		if pageNumber > 0 {
			query["page"] = strconv.Itoa(pageNumber)
		}
		if err := call(http.MethodGet, "/api/v1/notifications", query, nil, &page); err != nil {
			return err
		}
		if output != "json" {
			printNotifications(&page)
		}
		return nil
	},
}

var readCmd = actionCmd("read <notification-id>", "Mark a notification read", http.MethodPost, "/api/v1/notifications/%s/read", "Marked %s read")
var deleteNotificationCmd = actionCmd("delete <notification-id>", "Delete a notification", http.MethodDelete, "/api/v1/notifications/%s", "Deleted %s")

var readAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification read",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Updated int64 `json:"updated"`
		}
		if err := call(http.MethodPost, "/api/v1/notifications/read-all", nil, nil, &resp); err != nil {
			return err
		}
		if output != "json" {
			printSuccess("Marked %d notifications read", resp.Updated)
		}
		return nil
	},
}

var unreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Show the unread notification count",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Unread int64 `json:"unread"`
		}
		if err := call(http.MethodGet, "/api/v1/notifications/unread-count", nil, nil, &resp); err != nil {
			return err
		}
		if output != "json" {
			printInfo("%d unread", resp.Unread)
		}
		return nil
	},
}

func init() {
	feedCmd.Flags().StringVar(&feedCursor, "cursor", "", "nextCursor from the previous page")
	feedCmd.Flags().IntVar(&pageLimit, "limit", 0, "Page size (1-50)")

	for _, cmd := range []*cobra.Command{followersCmd, followingCmd, commentsCmd} {
		cmd.Flags().IntVar(&pageOffset, "offset", 0, "Rows to skip")
		cmd.Flags().IntVar(&pageLimit, "limit", 0, "Page size (1-50)")
	}

	notificationsCmd.Flags().IntVar(&pageNumber, "page", 0, "1-based page number")
	notificationsCmd.Flags().IntVar(&pageLimit, "limit", 0, "Page size (1-50)")
	notificationsCmd.AddCommand(readCmd, readAllCmd, unreadCmd, deleteNotificationCmd)
}

// actionCmd builds a command that hits one id-scoped endpoint and reports
// success.
func actionCmd(use, short, method, pathFormat, done string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := call(method, fmt.Sprintf(pathFormat, args[0]), nil, nil, nil); err != nil {
				return err
			}
			if output != "json" {
				printSuccess(done, args[0])
			}
			return nil
		},
	}
}

func userListCmd(use, short, pathFormat string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var page engagement.UserPage
			if err := call(http.MethodGet, fmt.Sprintf(pathFormat, args[0]), offsetQuery(), nil, &page); err != nil {
				return err
			}
			if output != "json" {
				printUsers(&page)
			}
			return nil
		},
	}
}

func limitQuery(query map[string]string) map[string]string {
	if pageLimit > 0 {
		query["limit"] = strconv.Itoa(pageLimit)
	}
	for k, v := range query {
		if v == "" {
			delete(query, k)
		}
	}
	return query
}

func offsetQuery() map[string]string {
	query := limitQuery(map[string]string{})
	if pageOffset > 0 {
		query["offset"] = strconv.Itoa(pageOffset)
	}
	return query
}
