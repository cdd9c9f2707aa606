// Package gateway wraps the hosted document store (Cloud Firestore)
// behind typed operations for the five record kinds the application
// owns remotely: user profiles, ratings, comments, watchlist entries
// and blog posts.
//
// All creation/approval/rejection timestamps are assigned by the store,
// never by the caller, and every underlying fault is caught here and
// returned as a wrapped error; nothing panics past this boundary.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

const (
	usersCollection     = "users"
	ratingsCollection   = "ratings"
	commentsCollection  = "comments"
	watchlistCollection = "watchlist"
	blogCollection      = "blogPosts"
)

// ErrNotFound marks an absent record. For profile lookups this is an
// expected state (first sign-in), not a failure.
var ErrNotFound = errors.New("not found")

type Store struct {
	client *firestore.Client
}

func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

// NewClient connects to Firestore for the given project. When
// credentialsFile is empty the ambient application-default credentials
// are used.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect firestore: %w", err)
	}
	return client, nil
}
