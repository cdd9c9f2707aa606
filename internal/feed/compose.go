package feed

import (
	"math"
	"sort"
	"time"

	"filmora/pkg/models"
)

// Entry is one row of the merged activity feed for a catalog item. Kind
// is a display-level tag: "review" when a star value is present,
// "comment" otherwise. It is derived, not stored.
type Entry struct {
	Kind       string     `json:"kind"`
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	UserName   string     `json:"userName"`
	MovieID    string     `json:"movieId"`
	MovieTitle string     `json:"movieTitle"`
	Rating     int        `json:"rating,omitempty"`
	Comment    string     `json:"comment"`
	CreatedAt  time.Time  `json:"createdAt,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`

	effective time.Time
}

// View is the composed read-only feed for one catalog item.
type View struct {
	Entries      []Entry `json:"entries"`
	Average      float64 `json:"average"`
	ReviewCount  int     `json:"reviewCount"`
	CommentCount int     `json:"commentCount"`
}

// Compose merges the approved ratings and the comments for one catalog
// item into a single reverse-chronological feed and computes the
// average star value of the ratings subsequence, rounded to one decimal
// (0 when there are no ratings). It is recomputed from scratch on every
// call; nothing is cached.
func Compose(approved []models.Rating, comments []models.Comment, movieID string) View {
	var view View
	sum := 0

	for _, r := range approved {
		if r.MovieID != movieID {
			continue
		}
		sum += r.Rating
		view.ReviewCount++
		view.Entries = append(view.Entries, Entry{
			Kind:       "review",
			ID:         r.ID,
			UserID:     r.UserID,
			UserName:   r.UserName,
			MovieID:    r.MovieID,
			MovieTitle: r.MovieTitle,
			Rating:     r.Rating,
			Comment:    r.Comment,
			CreatedAt:  r.CreatedAt,
			ApprovedAt: r.ApprovedAt,
			effective:  effectiveTime(r.CreatedAt, r.SubmittedAt),
		})
	}

	for _, cm := range comments {
		if cm.MovieID != movieID {
			continue
		}
		view.CommentCount++
		view.Entries = append(view.Entries, Entry{
			Kind:       "comment",
			ID:         cm.ID,
			UserID:     cm.UserID,
			UserName:   cm.UserName,
			MovieID:    cm.MovieID,
			MovieTitle: cm.MovieTitle,
			Comment:    cm.Comment,
			CreatedAt:  cm.CreatedAt,
			effective:  effectiveTime(cm.CreatedAt, cm.SubmittedAt),
		})
	}

	// Newest first; entries with no usable timestamp have the zero
	// effective time and sink to the end. Stable keeps insertion order
	// on ties.
	sort.SliceStable(view.Entries, func(i, j int) bool {
		return view.Entries[i].effective.After(view.Entries[j].effective)
	})

	if view.ReviewCount > 0 {
		view.Average = math.Round(float64(sum)/float64(view.ReviewCount)*10) / 10
	}
	return view
}

// effectiveTime is the creation timestamp when the store assigned one,
// else the local submission timestamp, else zero.
func effectiveTime(createdAt, submittedAt time.Time) time.Time {
	if !createdAt.IsZero() {
		return createdAt
	}
	return submittedAt
}
