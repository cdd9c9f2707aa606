package state

import (
	"time"

	"filmora/pkg/models"
)

// Event is one typed mutation of the application state. Every change
// goes through Store.Dispatch; nothing mutates the container directly.
type Event interface {
	event()
}

// ProfileLoaded hydrates a user's profile after a successful lookup.
type ProfileLoaded struct {
	Profile models.UserProfile
}

// ProfileCreated records a first-run or registration-time profile.
type ProfileCreated struct {
	Profile models.UserProfile
}

// RatingsLoaded replaces the three rating partitions with a fresh read
// from the store. A caller refreshing only one partition passes the
// others empty, which is the refresh-on-mount contract: the mirror
// reflects the last load, not a live subscription.
type RatingsLoaded struct {
	Pending  []models.Rating
	Approved []models.Rating
	Rejected []models.Rating
}

// RatingSubmitted patches a freshly created rating into the pending
// partition under its store-assigned id.
type RatingSubmitted struct {
	Rating models.Rating
}

// RatingApproved moves a rating from pending to approved.
type RatingApproved struct {
	RatingID string
	At       time.Time
}

// RatingRejected moves a rating from pending to rejected.
type RatingRejected struct {
	RatingID string
	At       time.Time
}

// CommentsLoaded replaces the comment collection.
type CommentsLoaded struct {
	Comments []models.Comment
}

// CommentAdded patches a freshly created comment into the collection.
type CommentAdded struct {
	Comment models.Comment
}

// WatchlistLoaded replaces one user's watchlist mirror.
type WatchlistLoaded struct {
	UserID  string
	Entries []models.WatchlistEntry
}

// WatchlistAdded patches a new entry into one user's watchlist.
type WatchlistAdded struct {
	Entry models.WatchlistEntry
}

// WatchlistRemoved drops an entry from one user's watchlist.
type WatchlistRemoved struct {
	UserID  string
	MovieID string
}

// BlogLoaded replaces one user's blog post mirror.
type BlogLoaded struct {
	UserID string
	Posts  []models.BlogPost
}

// BlogAdded patches a new post into its author's mirror.
type BlogAdded struct {
	Post models.BlogPost
}

// BlogUpdated applies an author's edit to a mirrored post.
type BlogUpdated struct {
	AuthorID string
	PostID   string
	Title    string
	Content  string
	Tags     []string
	At       time.Time
}

// BlogDeleted drops a post from its author's mirror.
type BlogDeleted struct {
	AuthorID string
	PostID   string
}

// UserCleared wipes every piece of state scoped to one user in a single
// step: profile (and with it the admin flag), watchlist, blog posts,
// and the user's entries in the rating partitions and comment
// collection.
type UserCleared struct {
	UserID string
}

func (ProfileLoaded) event()    {}
func (ProfileCreated) event()   {}
func (RatingsLoaded) event()    {}
func (RatingSubmitted) event()  {}
func (RatingApproved) event()   {}
func (RatingRejected) event()   {}
func (CommentsLoaded) event()   {}
func (CommentAdded) event()     {}
func (WatchlistLoaded) event()  {}
func (WatchlistAdded) event()   {}
func (WatchlistRemoved) event() {}
func (BlogLoaded) event()       {}
func (BlogAdded) event()        {}
func (BlogUpdated) event()      {}
func (BlogDeleted) event()      {}
func (UserCleared) event()      {}
