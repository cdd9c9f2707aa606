package models

import "time"

// Comment is a free-text remark on a catalog item. Comments carry no
// star value, are approved at creation and never change.
type Comment struct {
	ID          string    `json:"id" firestore:"-"`
	UserID      string    `json:"userId" firestore:"userId"`
	UserName    string    `json:"userName" firestore:"userName"`
	MovieID     string    `json:"movieId" firestore:"movieId"`
	MovieTitle  string    `json:"movieTitle" firestore:"movieTitle"`
	Comment     string    `json:"comment" firestore:"comment"`
	Status      string    `json:"status" firestore:"status"`
	CreatedAt   time.Time `json:"createdAt,omitempty" firestore:"createdAt,serverTimestamp"`
	SubmittedAt time.Time `json:"submittedAt,omitempty" firestore:"-"`
}
