package models

import "time"

// UserProfile is the application-side record for one Firebase identity.
// The document id equals the identity's uid, so exactly one profile can
// exist per identity. IsAdmin gates the moderation approve/reject
// transition.
type UserProfile struct {
	ID             string    `json:"id" firestore:"-"`
	FirstName      string    `json:"firstName" firestore:"firstName"`
	LastName       string    `json:"lastName" firestore:"lastName"`
	Email          string    `json:"email" firestore:"email"`
	Bio            string    `json:"bio,omitempty" firestore:"bio,omitempty"`
	FavoriteGenres []string  `json:"favoriteGenres,omitempty" firestore:"favoriteGenres,omitempty"`
	Avatar         string    `json:"avatar,omitempty" firestore:"avatar,omitempty"`
	IsAdmin        bool      `json:"isAdmin" firestore:"isAdmin"`
	IsComplete     bool      `json:"isComplete" firestore:"isComplete"`
	CreatedAt      time.Time `json:"createdAt,omitempty" firestore:"createdAt,serverTimestamp"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty" firestore:"updatedAt,serverTimestamp"`
}

// FullName is the display name attached to ratings, comments and blog
// posts at submission time.
func (p UserProfile) FullName() string {
	if p.FirstName == "" && p.LastName == "" {
		return p.Email
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
