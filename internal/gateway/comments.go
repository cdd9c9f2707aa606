package gateway

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"filmora/pkg/models"
)

// AddComment creates a comment record. Comments skip moderation: the
// status is forced to approved at creation.
func (s *Store) AddComment(ctx context.Context, cm models.Comment) (string, error) {
	cm.Status = models.StatusApproved

	ref, _, err := s.client.Collection(commentsCollection).Add(ctx, cm)
	if err != nil {
		return "", fmt.Errorf("add comment: %w", err)
	}
	return ref.ID, nil
}

// ListComments reads comments newest first, optionally filtered to one
// catalog item.
func (s *Store) ListComments(ctx context.Context, movieID string) ([]models.Comment, error) {
	q := s.client.Collection(commentsCollection).Query
	if movieID != "" {
		q = q.Where("movieId", "==", movieID)
	}
	q = q.OrderBy("createdAt", firestore.Desc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []models.Comment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list comments: %w", err)
		}
		var cm models.Comment
		if err := doc.DataTo(&cm); err != nil {
			return nil, fmt.Errorf("decode comment %s: %w", doc.Ref.ID, err)
		}
		cm.ID = doc.Ref.ID
		out = append(out, cm)
	}
	return out, nil
}
