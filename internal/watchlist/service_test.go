package watchlist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmora/internal/state"
	"filmora/pkg/models"
)

type fakeGateway struct {
	entries map[string]models.WatchlistEntry // docID -> entry
	nextID  string

	checkErr  error
	addErr    error
	removeErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{entries: map[string]models.WatchlistEntry{}, nextID: "w1"}
}

func (f *fakeGateway) AddWatchlistEntry(_ context.Context, e models.WatchlistEntry) (string, error) {
	if f.addErr != nil {
		return "", f.addErr
	}
	id := f.nextID
	f.entries[id] = e
	return id, nil
}

func (f *fakeGateway) RemoveWatchlistEntry(_ context.Context, entryID string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.entries, entryID)
	return nil
}

func (f *fakeGateway) ListWatchlist(_ context.Context, userID string) ([]models.WatchlistEntry, error) {
	var out []models.WatchlistEntry
	for id, e := range f.entries {
		if e.UserID == userID {
			e.ID = id
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeGateway) CheckWatchlist(_ context.Context, userID, movieID string) (string, bool, error) {
	if f.checkErr != nil {
		return "", false, f.checkErr
	}
	for id, e := range f.entries {
		if e.UserID == userID && e.MovieID == movieID {
			return id, true, nil
		}
	}
	return "", false, nil
}

func TestAddAssignsIDAndMirrors(t *testing.T) {
	gw := newFakeGateway()
	st := state.New()
	svc := NewService(gw, st)

	saved, err := svc.Add(context.Background(), models.WatchlistEntry{
		UserID: "u1", MovieID: "m1", MovieTitle: "Dune",
	})
	require.NoError(t, err)
	assert.Equal(t, "w1", saved.ID)

	mirrored := st.Watchlist("u1")
	require.Len(t, mirrored, 1)
	assert.Equal(t, "m1", mirrored[0].MovieID)
}

func TestAddDuplicateRejected(t *testing.T) {
	gw := newFakeGateway()
	st := state.New()
	svc := NewService(gw, st)

	_, err := svc.Add(context.Background(), models.WatchlistEntry{UserID: "u1", MovieID: "m1"})
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), models.WatchlistEntry{UserID: "u1", MovieID: "m1"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Len(t, gw.entries, 1)
	assert.Len(t, st.Watchlist("u1"), 1)
}

func TestSameItemDifferentUsersAllowed(t *testing.T) {
	gw := newFakeGateway()
	svc := NewService(gw, state.New())

	_, err := svc.Add(context.Background(), models.WatchlistEntry{UserID: "u1", MovieID: "m1"})
	require.NoError(t, err)

	gw.nextID = "w2"
	_, err = svc.Add(context.Background(), models.WatchlistEntry{UserID: "u2", MovieID: "m1"})
	require.NoError(t, err)
	assert.Len(t, gw.entries, 2)
}

func TestRemoveMissingIsFailure(t *testing.T) {
	svc := NewService(newFakeGateway(), state.New())
	err := svc.Remove(context.Background(), "u1", "m1")
	assert.ErrorIs(t, err, ErrNotSaved)
}

func TestRemoveDeletesAndMirrors(t *testing.T) {
	gw := newFakeGateway()
	st := state.New()
	svc := NewService(gw, st)

	_, err := svc.Add(context.Background(), models.WatchlistEntry{UserID: "u1", MovieID: "m1"})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), "u1", "m1"))
	assert.Empty(t, gw.entries)
	assert.Empty(t, st.Watchlist("u1"))
}

func TestRemoveRemoteFailureLeavesMirror(t *testing.T) {
	gw := newFakeGateway()
	st := state.New()
	svc := NewService(gw, st)

	_, err := svc.Add(context.Background(), models.WatchlistEntry{UserID: "u1", MovieID: "m1"})
	require.NoError(t, err)

	gw.removeErr = errors.New("backend unavailable")
	err = svc.Remove(context.Background(), "u1", "m1")
	require.Error(t, err)
	assert.Len(t, st.Watchlist("u1"), 1)
}

func TestListReplacesMirror(t *testing.T) {
	gw := newFakeGateway()
	st := state.New()
	svc := NewService(gw, st)

	gw.entries["w9"] = models.WatchlistEntry{UserID: "u1", MovieID: "m9"}

	entries, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "w9", entries[0].ID)
	assert.Len(t, st.Watchlist("u1"), 1)
}
