package models

import "time"

// BlogPost is a long-form article written by a user. Posts are published
// at creation, may be edited (title/content/tags) and deleted, but only
// by their author. There is no moderation step.
type BlogPost struct {
	ID          string     `json:"id" firestore:"-"`
	AuthorID    string     `json:"authorId" firestore:"authorId"`
	Author      string     `json:"author" firestore:"author"`
	Title       string     `json:"title" firestore:"title"`
	Content     string     `json:"content" firestore:"content"`
	Tags        []string   `json:"tags,omitempty" firestore:"tags,omitempty"`
	Status      string     `json:"status" firestore:"status"`
	PublishedAt time.Time  `json:"publishedAt,omitempty" firestore:"publishedAt,serverTimestamp"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
}
