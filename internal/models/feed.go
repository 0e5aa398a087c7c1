package models

// FeedView names one of the paginated post listings.
type FeedView string

const (
	FeedGlobal    FeedView = "global"
	FeedFollowing FeedView = "following"
	FeedOwn       FeedView = "own"
	FeedBookmarks FeedView = "bookmarks"
)

// FeedViews lists every view.
var FeedViews = []FeedView{FeedGlobal, FeedFollowing, FeedOwn, FeedBookmarks}

// Valid reports whether v is a known view.
func (v FeedView) Valid() bool {
	for _, known := range FeedViews {
		if v == known {
			return true
		}
	}
	return false
}
