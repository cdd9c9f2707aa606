// Package watchlist manages each user's saved catalog items: at most
// one entry per (user, item), owner-scoped reads and removals.
package watchlist

import (
	"context"
	"errors"
	"fmt"

	"filmora/internal/state"
	"filmora/pkg/models"
)

var (
	// ErrDuplicate rejects saving an item the user already has.
	ErrDuplicate = errors.New("item already in watchlist")
	// ErrNotSaved rejects removing an item the user never saved.
	ErrNotSaved = errors.New("item not in watchlist")
)

// Gateway is the slice of the remote data gateway the watchlist needs.
type Gateway interface {
	AddWatchlistEntry(ctx context.Context, e models.WatchlistEntry) (string, error)
	RemoveWatchlistEntry(ctx context.Context, entryID string) error
	ListWatchlist(ctx context.Context, userID string) ([]models.WatchlistEntry, error)
	CheckWatchlist(ctx context.Context, userID, movieID string) (string, bool, error)
}

type Service struct {
	Gateway Gateway
	State   *state.Store
}

func NewService(gw Gateway, st *state.Store) *Service {
	return &Service{Gateway: gw, State: st}
}

// Add saves a catalog item for the user. Saving an item twice is an
// error, not a second entry.
func (s *Service) Add(ctx context.Context, e models.WatchlistEntry) (models.WatchlistEntry, error) {
	_, exists, err := s.Gateway.CheckWatchlist(ctx, e.UserID, e.MovieID)
	if err != nil {
		return models.WatchlistEntry{}, fmt.Errorf("check watchlist: %w", err)
	}
	if exists {
		return models.WatchlistEntry{}, ErrDuplicate
	}

	gen := s.State.Generation()
	id, err := s.Gateway.AddWatchlistEntry(ctx, e)
	if err != nil {
		return models.WatchlistEntry{}, err
	}
	e.ID = id
	s.State.DispatchAt(gen, state.WatchlistAdded{Entry: e})
	return e, nil
}

// Remove deletes the user's entry for one catalog item. Removing an
// item that was never saved is a failure, not a no-op.
func (s *Service) Remove(ctx context.Context, userID, movieID string) error {
	entryID, exists, err := s.Gateway.CheckWatchlist(ctx, userID, movieID)
	if err != nil {
		return fmt.Errorf("check watchlist: %w", err)
	}
	if !exists {
		return ErrNotSaved
	}

	gen := s.State.Generation()
	if err := s.Gateway.RemoveWatchlistEntry(ctx, entryID); err != nil {
		return err
	}
	s.State.DispatchAt(gen, state.WatchlistRemoved{UserID: userID, MovieID: movieID})
	return nil
}

// List refreshes the user's watchlist mirror from the store.
func (s *Service) List(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	gen := s.State.Generation()
	entries, err := s.Gateway.ListWatchlist(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.State.DispatchAt(gen, state.WatchlistLoaded{UserID: userID, Entries: entries})
	return entries, nil
}

// Contains reports whether the user has saved the item.
func (s *Service) Contains(ctx context.Context, userID, movieID string) (bool, error) {
	_, exists, err := s.Gateway.CheckWatchlist(ctx, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("check watchlist: %w", err)
	}
	return exists, nil
}
