package gateway

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"filmora/pkg/models"
)

// AddRating creates a rating record. The status is forced to pending
// regardless of what the caller set; createdAt is assigned by the store.
func (s *Store) AddRating(ctx context.Context, r models.Rating) (string, error) {
	r.Status = models.StatusPending
	r.ApprovedAt = nil
	r.RejectedAt = nil

	ref, _, err := s.client.Collection(ratingsCollection).Add(ctx, r)
	if err != nil {
		return "", fmt.Errorf("add rating: %w", err)
	}
	return ref.ID, nil
}

// ListRatingsByStatus reads ratings with the given status, newest
// first. An empty status reads all ratings.
func (s *Store) ListRatingsByStatus(ctx context.Context, status string) ([]models.Rating, error) {
	q := s.client.Collection(ratingsCollection).Query
	if status != "" {
		q = q.Where("status", "==", status)
	}
	q = q.OrderBy("createdAt", firestore.Desc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []models.Rating
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list ratings: %w", err)
		}
		var r models.Rating
		if err := doc.DataTo(&r); err != nil {
			return nil, fmt.Errorf("decode rating %s: %w", doc.Ref.ID, err)
		}
		r.ID = doc.Ref.ID
		out = append(out, r)
	}
	return out, nil
}

// UpdateRatingStatus writes the moderation outcome: the status field
// plus the store-assigned timestamp named for the outcome.
func (s *Store) UpdateRatingStatus(ctx context.Context, ratingID, status string) error {
	updates := []firestore.Update{
		{Path: "status", Value: status},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}
	switch status {
	case models.StatusApproved:
		updates = append(updates, firestore.Update{Path: "approvedAt", Value: firestore.ServerTimestamp})
	case models.StatusRejected:
		updates = append(updates, firestore.Update{Path: "rejectedAt", Value: firestore.ServerTimestamp})
	}

	if _, err := s.client.Collection(ratingsCollection).Doc(ratingID).Update(ctx, updates); err != nil {
		return fmt.Errorf("update rating status: %w", err)
	}
	return nil
}
