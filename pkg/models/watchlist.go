package models

import "time"

// WatchlistEntry saves one catalog item for one user. At most one entry
// exists per (userId, movieId) pair. The display fields are denormalized
// from the catalog API at the time the item was saved.
type WatchlistEntry struct {
	ID          string    `json:"id" firestore:"-"`
	UserID      string    `json:"userId" firestore:"userId"`
	MovieID     string    `json:"movieId" firestore:"movieId"`
	MovieTitle  string    `json:"movieTitle" firestore:"movieTitle"`
	PosterPath  string    `json:"posterPath,omitempty" firestore:"posterPath,omitempty"`
	ReleaseDate string    `json:"releaseDate,omitempty" firestore:"releaseDate,omitempty"`
	VoteAverage float64   `json:"voteAverage,omitempty" firestore:"voteAverage,omitempty"`
	Overview    string    `json:"overview,omitempty" firestore:"overview,omitempty"`
	AddedAt     time.Time `json:"addedAt,omitempty" firestore:"addedAt,serverTimestamp"`
}
