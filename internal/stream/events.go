package stream

import "time"

// Event types pushed over the stream.
const (
	EventRatingSubmitted = "rating.submitted"
	EventRatingApproved  = "rating.approved"
	EventRatingRejected  = "rating.rejected"
	EventCommentCreated  = "comment.created"
	EventWatchlistUpdate = "watchlist.update"
	EventWatchlistDelete = "watchlist.delete"
)

// ModerationEvent announces a rating lifecycle change or a new comment.
type ModerationEvent struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	MovieID    string    `json:"movie_id"`
	MovieTitle string    `json:"movie_title,omitempty"`
	At         time.Time `json:"at"`
}

// WatchlistEvent announces a change to one user's watchlist.
type WatchlistEvent struct {
	Type    string    `json:"type"`
	UserID  string    `json:"user_id"`
	MovieID string    `json:"movie_id"`
	At      time.Time `json:"at"`
}
