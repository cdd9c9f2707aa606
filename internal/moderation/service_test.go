package moderation

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
	addRatingFn    func(models.Rating) (string, error)
	addCommentFn   func(models.Comment) (string, error)
	updateStatusFn func(ratingID, status string) error
	listFn         func(status string) ([]models.Rating, error)

	addedRatings  []models.Rating
	addedComments []models.Comment
	statusWrites  []string
}

func (f *fakeGateway) AddRating(_ context.Context, r models.Rating) (string, error) {
	f.addedRatings = append(f.addedRatings, r)
	if f.addRatingFn != nil {
		return f.addRatingFn(r)
	}
	return "r1", nil
}

func (f *fakeGateway) AddComment(_ context.Context, cm models.Comment) (string, error) {
	f.addedComments = append(f.addedComments, cm)
	if f.addCommentFn != nil {
		return f.addCommentFn(cm)
	}
	return "c1", nil
}

func (f *fakeGateway) UpdateRatingStatus(_ context.Context, ratingID, status string) error {
	f.statusWrites = append(f.statusWrites, ratingID+":"+status)
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ratingID, status)
	}
	return nil
}

func (f *fakeGateway) ListRatingsByStatus(_ context.Context, status string) ([]models.Rating, error) {
	if f.listFn != nil {
		return f.listFn(status)
	}
	return nil, nil
}

func newService(gw *fakeGateway) (*Service, *state.Store) {
	st := state.New()
	return NewService(gw, st), st
}

func TestSubmitForcesPendingStatus(t *testing.T) {
	gw := &fakeGateway{}
	svc, st := newService(gw)

	saved, err := svc.Submit(context.Background(), models.Rating{
		UserID:     "u1",
		MovieID:    "movie_42",
		MovieTitle: "Great Film",
		Rating:     4,
		Comment:    "Great film",
		Status:     models.StatusApproved, // caller attempts to skip moderation
	})
	require.NoError(t, err)

	require.Len(t, gw.addedRatings, 1)
	assert.Equal(t, models.StatusPending, gw.addedRatings[0].Status)
	assert.Nil(t, gw.addedRatings[0].ApprovedAt)

	assert.Equal(t, "r1", saved.ID)
	pending, approved, _ := st.Partitions()
	require.Len(t, pending, 1)
	assert.Equal(t, "r1", pending[0].ID)
	assert.Equal(t, models.StatusPending, pending[0].Status)
	assert.Empty(t, approved)
}

func TestSubmitRemoteFailureLeavesMirrorUnchanged(t *testing.T) {
	gw := &fakeGateway{addRatingFn: func(models.Rating) (string, error) {
		return "", errors.New("backend unavailable")
	}}
	svc, st := newService(gw)

	_, err := svc.Submit(context.Background(), models.Rating{UserID: "u1", MovieID: "m", Rating: 3, Comment: "x"})
	require.Error(t, err)

	pending, _, _ := st.Partitions()
	assert.Empty(t, pending)
}

func TestDecideApproveScenario(t *testing.T) {
	gw := &fakeGateway{}
	svc, st := newService(gw)

	_, err := svc.Submit(context.Background(), models.Rating{
		UserID: "u1", MovieID: "movie_42", Rating: 4, Comment: "Great film",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Decide(context.Background(), "r1", models.StatusApproved))

	assert.Equal(t, []string{"r1:approved"}, gw.statusWrites)
	pending, approved, rejected := st.Partitions()
	assert.Empty(t, pending)
	assert.Empty(t, rejected)
	require.Len(t, approved, 1)
	assert.Equal(t, models.StatusApproved, approved[0].Status)
	assert.NotNil(t, approved[0].ApprovedAt)
	assert.Nil(t, approved[0].RejectedAt)
}

func TestDecideTwiceIsRejected(t *testing.T) {
	gw := &fakeGateway{}
	svc, st := newService(gw)

	_, err := svc.Submit(context.Background(), models.Rating{UserID: "u1", MovieID: "m", Rating: 4, Comment: "x"})
	require.NoError(t, err)
	require.NoError(t, svc.Decide(context.Background(), "r1", models.StatusApproved))

	// The refresh fallback sees the rating as already approved remotely.
	gw.listFn = func(status string) ([]models.Rating, error) {
		if status == models.StatusApproved {
			return []models.Rating{{ID: "r1", Status: models.StatusApproved}}, nil
		}
		return nil, nil
	}

	err = svc.Decide(context.Background(), "r1", models.StatusRejected)
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	// No second remote write, and the record sits in exactly one partition.
	assert.Equal(t, []string{"r1:approved"}, gw.statusWrites)
	pending, approved, rejected := st.Partitions()
	assert.Empty(t, pending)
	assert.Len(t, approved, 1)
	assert.Empty(t, rejected)
}

func TestDecideInvalidOutcome(t *testing.T) {
	svc, _ := newService(&fakeGateway{})
	err := svc.Decide(context.Background(), "r1", "pending")
	assert.ErrorIs(t, err, ErrInvalidOutcome)
}

func TestDecideRemoteFailureLeavesMirrorUnchanged(t *testing.T) {
	gw := &fakeGateway{updateStatusFn: func(string, string) error {
		return errors.New("write failed")
	}}
	svc, st := newService(gw)

	_, err := svc.Submit(context.Background(), models.Rating{UserID: "u1", MovieID: "m", Rating: 4, Comment: "x"})
	require.NoError(t, err)

	err = svc.Decide(context.Background(), "r1", models.StatusApproved)
	require.Error(t, err)

	pending, approved, _ := st.Partitions()
	require.Len(t, pending, 1, "failed decide must leave the rating pending")
	assert.Empty(t, approved)
}

func TestDecideUnknownRatingAfterRefresh(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newService(gw)

	err := svc.Decide(context.Background(), "missing", models.StatusApproved)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
	assert.Empty(t, gw.statusWrites)
}

func TestSubmitCommentForcesApproved(t *testing.T) {
	gw := &fakeGateway{}
	svc, st := newService(gw)

	saved, err := svc.SubmitComment(context.Background(), models.Comment{
		UserID: "u1", MovieID: "movie_42", Comment: "nice",
		Status: models.StatusPending, // ignored
	})
	require.NoError(t, err)

	require.Len(t, gw.addedComments, 1)
	assert.Equal(t, models.StatusApproved, gw.addedComments[0].Status)
	assert.Equal(t, "c1", saved.ID)

	comments := st.Comments()
	require.Len(t, comments, 1)
	assert.Equal(t, models.StatusApproved, comments[0].Status)
}

func TestLoadAllReplacesPartitionsTogether(t *testing.T) {
	gw := &fakeGateway{listFn: func(status string) ([]models.Rating, error) {
		return []models.Rating{{ID: "id-" + status, Status: status}}, nil
	}}
	svc, st := newService(gw)

	pending, approved, rejected, err := svc.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Len(t, approved, 1)
	assert.Len(t, rejected, 1)

	p, a, r := st.Partitions()
	assert.Equal(t, "id-pending", p[0].ID)
	assert.Equal(t, "id-approved", a[0].ID)
	assert.Equal(t, "id-rejected", r[0].ID)
}

func TestLoadAllFailureLeavesMirrorUnchanged(t *testing.T) {
	gw := &fakeGateway{}
	svc, st := newService(gw)
	_, err := svc.Submit(context.Background(), models.Rating{UserID: "u1", MovieID: "m", Rating: 2, Comment: "x"})
	require.NoError(t, err)

	gw.listFn = func(status string) ([]models.Rating, error) {
		return nil, errors.New("backend unavailable")
	}
	_, _, _, err = svc.LoadAll(context.Background())
	require.Error(t, err)

	pending, _, _ := st.Partitions()
	assert.Len(t, pending, 1)
}
