package gateway

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"filmora/pkg/models"
)

// AddWatchlistEntry saves a catalog item for a user. Uniqueness per
// (user, item) is the caller's contract, checked via CheckWatchlist
// before the write.
func (s *Store) AddWatchlistEntry(ctx context.Context, e models.WatchlistEntry) (string, error) {
	ref, _, err := s.client.Collection(watchlistCollection).Add(ctx, e)
	if err != nil {
		return "", fmt.Errorf("add watchlist entry: %w", err)
	}
	return ref.ID, nil
}

// RemoveWatchlistEntry deletes a saved entry by document id.
func (s *Store) RemoveWatchlistEntry(ctx context.Context, entryID string) error {
	if _, err := s.client.Collection(watchlistCollection).Doc(entryID).Delete(ctx); err != nil {
		return fmt.Errorf("remove watchlist entry: %w", err)
	}
	return nil
}

// ListWatchlist reads one user's saved items, newest first.
func (s *Store) ListWatchlist(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	iter := s.client.Collection(watchlistCollection).
		Where("userId", "==", userID).
		OrderBy("addedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var out []models.WatchlistEntry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list watchlist: %w", err)
		}
		var e models.WatchlistEntry
		if err := doc.DataTo(&e); err != nil {
			return nil, fmt.Errorf("decode watchlist entry %s: %w", doc.Ref.ID, err)
		}
		e.ID = doc.Ref.ID
		out = append(out, e)
	}
	return out, nil
}

// CheckWatchlist reports whether the user already saved the item and,
// if so, under which document id.
func (s *Store) CheckWatchlist(ctx context.Context, userID, movieID string) (string, bool, error) {
	iter := s.client.Collection(watchlistCollection).
		Where("userId", "==", userID).
		Where("movieId", "==", movieID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("check watchlist: %w", err)
	}
	return doc.Ref.ID, true, nil
}
