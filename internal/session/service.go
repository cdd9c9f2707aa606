// Package session bridges the external identity service into
// application state: it turns verified identities into app session
// tokens, hydrates the profile mirror on sign-in, flags first-run
// profile setup, and clears all user-scoped state on sign-out.
package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"filmora/internal/gateway"
	"filmora/internal/state"
	"filmora/pkg/models"
)

// ProfileGateway is the slice of the remote data gateway the bridge
// needs.
type ProfileGateway interface {
	CreateProfile(ctx context.Context, p models.UserProfile) error
	GetProfile(ctx context.Context, userID string) (models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, fields map[string]any) error
}

type Service struct {
	Gateway  ProfileGateway
	State    *state.Store
	Tokens   TokenService
	Identity *IdentityClient
	Verifier TokenVerifier
	Log      *zap.Logger
}

func NewService(gw ProfileGateway, st *state.Store, tokens TokenService, identity *IdentityClient, verifier TokenVerifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Gateway: gw, State: st, Tokens: tokens, Identity: identity, Verifier: verifier, Log: log}
}

// Session is the result of a successful sign-in: the app token plus the
// hydrated profile, or NeedsSetup when no profile exists yet for the
// identity — an expected first-run state, not an error.
type Session struct {
	Token      string              `json:"token"`
	ExpiresAt  time.Time           `json:"expires_at"`
	UserID     string              `json:"user_id"`
	Email      string              `json:"email"`
	IsAdmin    bool                `json:"is_admin"`
	NeedsSetup bool                `json:"needs_setup"`
	Profile    *models.UserProfile `json:"profile,omitempty"`
}

// SignIn authenticates credentials against the identity service and
// hydrates the session.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	uid, err := s.Identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	return s.hydrate(ctx, uid, email)
}

// FromIDToken verifies an identity-service ID token (the SDK sign-in
// path) and hydrates the session.
func (s *Service) FromIDToken(ctx context.Context, idToken string) (Session, error) {
	uid, email, err := s.Verifier.Verify(ctx, idToken)
	if err != nil {
		return Session{}, err
	}
	return s.hydrate(ctx, uid, email)
}

// Register creates the identity and its profile in one flow, then
// returns a signed-in session.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string) (Session, error) {
	uid, err := s.Identity.SignUp(ctx, email, password)
	if err != nil {
		return Session{}, err
	}

	profile := models.UserProfile{
		ID:         uid,
		FirstName:  firstName,
		LastName:   lastName,
		Email:      email,
		IsComplete: true,
	}
	gen := s.State.Generation()
	if err := s.Gateway.CreateProfile(ctx, profile); err != nil {
		return Session{}, err
	}
	s.State.DispatchAt(gen, state.ProfileCreated{Profile: profile})

	return s.sessionFor(profile.ID, profile.Email, false, &profile)
}

// SetupProfile completes first-run setup for an authenticated identity
// whose profile was absent at sign-in.
func (s *Service) SetupProfile(ctx context.Context, userID, email string, p models.UserProfile) (models.UserProfile, error) {
	p.ID = userID
	p.Email = email
	p.IsComplete = true

	gen := s.State.Generation()
	if err := s.Gateway.CreateProfile(ctx, p); err != nil {
		return models.UserProfile{}, err
	}
	s.State.DispatchAt(gen, state.ProfileCreated{Profile: p})
	return p, nil
}

// UpdateProfile applies an owner edit and refreshes the mirror from the
// store so server-assigned timestamps are reflected.
func (s *Service) UpdateProfile(ctx context.Context, userID string, fields map[string]any) (models.UserProfile, error) {
	gen := s.State.Generation()
	if err := s.Gateway.UpdateProfile(ctx, userID, fields); err != nil {
		return models.UserProfile{}, err
	}
	p, err := s.Gateway.GetProfile(ctx, userID)
	if err != nil {
		return models.UserProfile{}, err
	}
	s.State.DispatchAt(gen, state.ProfileLoaded{Profile: p})
	return p, nil
}

// Profile returns the mirrored profile, reading through to the store
// when the mirror has not seen this user yet.
func (s *Service) Profile(ctx context.Context, userID string) (models.UserProfile, error) {
	if p, ok := s.State.Profile(userID); ok {
		return p, nil
	}
	gen := s.State.Generation()
	p, err := s.Gateway.GetProfile(ctx, userID)
	if err != nil {
		return models.UserProfile{}, err
	}
	s.State.DispatchAt(gen, state.ProfileLoaded{Profile: p})
	return p, nil
}

// SignOut clears every piece of user-scoped state in one dispatch.
func (s *Service) SignOut(userID string) {
	s.State.Dispatch(state.UserCleared{UserID: userID})
	s.Log.Info("user signed out", zap.String("user_id", userID))
}

func (s *Service) hydrate(ctx context.Context, uid, email string) (Session, error) {
	gen := s.State.Generation()
	profile, err := s.Gateway.GetProfile(ctx, uid)
	if errors.Is(err, gateway.ErrNotFound) {
		// Expected on first sign-in: the screen routes to profile setup.
		sess, serr := s.sessionFor(uid, email, false, nil)
		sess.NeedsSetup = true
		return sess, serr
	}
	if err != nil {
		return Session{}, err
	}

	s.State.DispatchAt(gen, state.ProfileLoaded{Profile: profile})
	return s.sessionFor(uid, profile.Email, profile.IsAdmin, &profile)
}

func (s *Service) sessionFor(uid, email string, isAdmin bool, profile *models.UserProfile) (Session, error) {
	token, exp, err := s.Tokens.Sign(uid, email, isAdmin)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token:     token,
		ExpiresAt: exp,
		UserID:    uid,
		Email:     email,
		IsAdmin:   isAdmin,
		Profile:   profile,
	}, nil
}
