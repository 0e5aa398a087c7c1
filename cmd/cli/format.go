package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/roozanaryal/TwitterClone-sub000/internal/engagement"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"github.com/roozanaryal/TwitterClone-sub000/internal/notifications"
	"github.com/roozanaryal/TwitterClone-sub000/internal/timeline"
)

var (
	bold    = color.New(color.Bold)
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed)
	info    = color.New(color.FgCyan)
	faint   = color.New(color.Faint)
)

func printSuccess(format string, args ...interface{}) {
	success.Printf("✓ "+format+"\n", args...)
}

func printError(format string, args ...interface{}) {
	failure.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}

func printInfo(format string, args ...interface{}) {
	info.Printf(format+"\n", args...)
}

func printFeed(page *timeline.FeedPage) {
	if page.NoContentYet {
		printInfo("Nothing here yet. Follow someone to fill this view.")
		return
	}
	if len(page.Posts) == 0 {
		printInfo("No more posts")
		return
	}

	for _, p := range page.Posts {
		bold.Printf("%s ", displayName(p.Owner))
		faint.Printf("@%s · %s\n", p.Owner.Username, p.CreatedAt.Local().Format(time.Stamp))
		fmt.Println(p.Body)

		likes := fmt.Sprintf("♥ %d", p.LikeCount)
		if p.LikedByViewer {
			likes = failure.Sprint(likes)
		}
		saved := fmt.Sprintf("⚑ %d", p.BookmarkCount)
		if p.BookmarkedByViewer {
			saved = info.Sprint(saved)
		}
		faint.Printf("%s  ", p.ID)
		fmt.Printf("%s  ✎ %d  %s\n\n", likes, p.CommentCount, saved)
	}

	if page.NextCursor != nil {
		faint.Printf("next page: --cursor %s\n", *page.NextCursor)
	}
}

func printUsers(page *engagement.UserPage) {
	if len(page.Users) == 0 {
		printInfo("No users")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tNAME")
	for _, u := range page.Users {
		fmt.Fprintf(w, "%s\t@%s\t%s\n", u.ID, u.Username, u.DisplayName)
	}
	_ = w.Flush()
	faint.Printf("%d of %d\n", len(page.Users), page.Total)
}

func printComments(page *engagement.CommentPage) {
	if len(page.Comments) == 0 {
		printInfo("No comments")
		return
	}
	for _, c := range page.Comments {
		name := c.UserID
		if c.Author != nil {
			name = displayName(*c.Author)
		}
		bold.Printf("%s ", name)
		faint.Printf("%s\n", c.CreatedAt.Local().Format(time.Stamp))
		fmt.Println(c.Body)
	}
	faint.Printf("%d of %d\n", len(page.Comments), page.Total)
}

func printNotifications(page *notifications.Page) {
	if len(page.Notifications) == 0 {
		printInfo("No notifications")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tWHEN\tMESSAGE")
	for _, n := range page.Notifications {
		marker := "•"
		if n.IsRead {
			marker = " "
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", marker, n.ID, n.CreatedAt.Local().Format(time.Stamp), n.Message)
	}
	_ = w.Flush()
	if page.HasMore {
		faint.Printf("%d total, more with --page\n", page.Total)
	}
}

func displayName(u models.UserSummary) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return "@" + u.Username
}
