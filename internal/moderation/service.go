// Package moderation owns the lifecycle of user submissions: ratings
// are created pending and move exactly once to approved or rejected by
// a moderator; comments are created approved and never transition.
package moderation

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"filmora/internal/state"
	"filmora/pkg/models"
)

var (
	// ErrAlreadyDecided rejects a second transition for a rating that
	// has already left the pending partition.
	ErrAlreadyDecided = errors.New("rating already decided")
	// ErrInvalidOutcome rejects outcomes other than approved/rejected.
	ErrInvalidOutcome = errors.New("outcome must be approved or rejected")
)

// Gateway is the slice of the remote data gateway the state machine
// drives.
type Gateway interface {
	AddRating(ctx context.Context, r models.Rating) (string, error)
	AddComment(ctx context.Context, cm models.Comment) (string, error)
	UpdateRatingStatus(ctx context.Context, ratingID, status string) error
	ListRatingsByStatus(ctx context.Context, status string) ([]models.Rating, error)
}

type Service struct {
	Gateway Gateway
	State   *state.Store
}

func NewService(gw Gateway, st *state.Store) *Service {
	return &Service{Gateway: gw, State: st}
}

// Submit creates a rating. The status is forced to pending no matter
// what the caller passed; on success the mirror's pending partition
// gains the record under the store-assigned id. A remote failure leaves
// the mirror untouched.
func (s *Service) Submit(ctx context.Context, r models.Rating) (models.Rating, error) {
	r.Status = models.StatusPending
	r.ApprovedAt = nil
	r.RejectedAt = nil
	r.SubmittedAt = time.Now().UTC()

	gen := s.State.Generation()
	id, err := s.Gateway.AddRating(ctx, r)
	if err != nil {
		return models.Rating{}, err
	}
	r.ID = id
	s.State.DispatchAt(gen, state.RatingSubmitted{Rating: r})
	return r, nil
}

// SubmitComment creates a comment with status forced to approved and
// patches it straight into the mirror's comment collection.
func (s *Service) SubmitComment(ctx context.Context, cm models.Comment) (models.Comment, error) {
	cm.Status = models.StatusApproved
	cm.SubmittedAt = time.Now().UTC()

	gen := s.State.Generation()
	id, err := s.Gateway.AddComment(ctx, cm)
	if err != nil {
		return models.Comment{}, err
	}
	cm.ID = id
	s.State.DispatchAt(gen, state.CommentAdded{Comment: cm})
	return cm, nil
}

// Decide performs the single pending -> approved|rejected transition.
// Membership in the pending partition is checked first (refreshing the
// mirror once if needed) so an already-decided rating cannot be
// re-written or duplicated into a second partition. If the remote write
// fails the mirror is left unchanged and the failure is surfaced; there
// is no retry.
func (s *Service) Decide(ctx context.Context, ratingID, outcome string) error {
	if outcome != models.StatusApproved && outcome != models.StatusRejected {
		return ErrInvalidOutcome
	}

	if !s.State.InPending(ratingID) {
		if _, _, _, err := s.LoadAll(ctx); err != nil {
			return err
		}
		if !s.State.InPending(ratingID) {
			return ErrAlreadyDecided
		}
	}

	gen := s.State.Generation()
	if err := s.Gateway.UpdateRatingStatus(ctx, ratingID, outcome); err != nil {
		return err
	}

	now := time.Now().UTC()
	if outcome == models.StatusApproved {
		s.State.DispatchAt(gen, state.RatingApproved{RatingID: ratingID, At: now})
	} else {
		s.State.DispatchAt(gen, state.RatingRejected{RatingID: ratingID, At: now})
	}
	return nil
}

// LoadAll refreshes all three partitions with one concurrent read per
// status and applies them to the mirror together.
func (s *Service) LoadAll(ctx context.Context) (pending, approved, rejected []models.Rating, err error) {
	gen := s.State.Generation()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pending, err = s.Gateway.ListRatingsByStatus(gctx, models.StatusPending)
		return err
	})
	g.Go(func() error {
		var err error
		approved, err = s.Gateway.ListRatingsByStatus(gctx, models.StatusApproved)
		return err
	})
	g.Go(func() error {
		var err error
		rejected, err = s.Gateway.ListRatingsByStatus(gctx, models.StatusRejected)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	s.State.DispatchAt(gen, state.RatingsLoaded{
		Pending:  pending,
		Approved: approved,
		Rejected: rejected,
	})
	return pending, approved, rejected, nil
}
