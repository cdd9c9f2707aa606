package models

import "time"

// Moderation statuses for ratings. Comments are created approved and
// never transition; blog posts are created published.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusPublished = "published"
)

// Rating is one user's starred evaluation of one catalog item. It is
// created pending and moves exactly once to approved or rejected.
//
// CreatedAt is the store-assigned creation time. SubmittedAt is the
// local time attached when the rating is patched into the mirror right
// after a submit, before the server timestamp has been read back.
type Rating struct {
	ID          string     `json:"id" firestore:"-"`
	UserID      string     `json:"userId" firestore:"userId"`
	UserName    string     `json:"userName" firestore:"userName"`
	MovieID     string     `json:"movieId" firestore:"movieId"`
	MovieTitle  string     `json:"movieTitle" firestore:"movieTitle"`
	Rating      int        `json:"rating" firestore:"rating"`
	Comment     string     `json:"comment" firestore:"comment"`
	Status      string     `json:"status" firestore:"status"`
	CreatedAt   time.Time  `json:"createdAt,omitempty" firestore:"createdAt,serverTimestamp"`
	SubmittedAt time.Time  `json:"submittedAt,omitempty" firestore:"-"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty" firestore:"approvedAt,omitempty"`
	RejectedAt  *time.Time `json:"rejectedAt,omitempty" firestore:"rejectedAt,omitempty"`
}
