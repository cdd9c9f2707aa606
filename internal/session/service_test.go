package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmora/internal/gateway"
	"filmora/internal/state"
	"filmora/pkg/models"
)

type fakeProfileGateway struct {
	profiles map[string]models.UserProfile
	created  []models.UserProfile
	updates  []map[string]any

	createErr error
	getErr    error
}

func newFakeProfileGateway() *fakeProfileGateway {
	return &fakeProfileGateway{profiles: map[string]models.UserProfile{}}
}

func (f *fakeProfileGateway) CreateProfile(_ context.Context, p models.UserProfile) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, p)
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeProfileGateway) GetProfile(_ context.Context, userID string) (models.UserProfile, error) {
	if f.getErr != nil {
		return models.UserProfile{}, f.getErr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return models.UserProfile{}, gateway.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfileGateway) UpdateProfile(_ context.Context, userID string, fields map[string]any) error {
	f.updates = append(f.updates, fields)
	p := f.profiles[userID]
	if bio, ok := fields["bio"].(string); ok {
		p.Bio = bio
	}
	f.profiles[userID] = p
	return nil
}

type staticVerifier struct {
	uid, email string
	err        error
}

func (v staticVerifier) Verify(context.Context, string) (string, string, error) {
	return v.uid, v.email, v.err
}

func testTokens() TokenService {
	return TokenService{Secret: []byte("test-secret"), Issuer: "filmora", Duration: time.Hour}
}

// identityServer fakes the identity toolkit REST endpoint with a fixed
// response per request.
func identityServer(t *testing.T, status int, body any) *IdentityClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	t.Cleanup(srv.Close)
	return &IdentityClient{APIKey: "k", BaseURL: srv.URL, HTTPDoer: srv.Client()}
}

func TestSignInHydratesProfile(t *testing.T) {
	gw := newFakeProfileGateway()
	gw.profiles["u1"] = models.UserProfile{ID: "u1", Email: "a@b.com", FirstName: "Ada", IsAdmin: true, IsComplete: true}
	st := state.New()
	identity := identityServer(t, http.StatusOK, map[string]any{"localId": "u1", "email": "a@b.com"})
	svc := NewService(gw, st, testTokens(), identity, nil, nil)

	sess, err := svc.SignIn(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "u1", sess.UserID)
	assert.True(t, sess.IsAdmin)
	assert.False(t, sess.NeedsSetup)
	require.NotNil(t, sess.Profile)
	assert.Equal(t, "Ada", sess.Profile.FirstName)
	assert.NotEmpty(t, sess.Token)

	mirrored, ok := st.Profile("u1")
	require.True(t, ok)
	assert.Equal(t, "Ada", mirrored.FirstName)
}

func TestSignInMissingProfileFlagsSetup(t *testing.T) {
	gw := newFakeProfileGateway()
	st := state.New()
	identity := identityServer(t, http.StatusOK, map[string]any{"localId": "u1", "email": "a@b.com"})
	svc := NewService(gw, st, testTokens(), identity, nil, nil)

	sess, err := svc.SignIn(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)

	assert.True(t, sess.NeedsSetup)
	assert.Nil(t, sess.Profile)
	assert.False(t, sess.IsAdmin)
	assert.NotEmpty(t, sess.Token, "setup still needs an authenticated session")

	_, ok := st.Profile("u1")
	assert.False(t, ok)
}

func TestSignInErrorMapping(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"EMAIL_NOT_FOUND", "No account found with this email address"},
		{"INVALID_PASSWORD", "Incorrect password"},
		{"INVALID_LOGIN_CREDENTIALS", "Incorrect password"},
		{"INVALID_EMAIL", "Invalid email address"},
		{"SOMETHING_ODD", "An error occurred. Please try again."},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			identity := identityServer(t, http.StatusBadRequest, map[string]any{
				"error": map[string]any{"message": tc.code},
			})
			svc := NewService(newFakeProfileGateway(), state.New(), testTokens(), identity, nil, nil)

			_, err := svc.SignIn(context.Background(), "a@b.com", "bad")
			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tc.code, authErr.Code)
			assert.Equal(t, tc.want, authErr.Message)
		})
	}
}

func TestRegisterCreatesProfileAndSession(t *testing.T) {
	gw := newFakeProfileGateway()
	st := state.New()
	identity := identityServer(t, http.StatusOK, map[string]any{"localId": "u2", "email": "new@b.com"})
	svc := NewService(gw, st, testTokens(), identity, nil, nil)

	sess, err := svc.Register(context.Background(), "new@b.com", "secret123", "New", "User")
	require.NoError(t, err)

	require.Len(t, gw.created, 1)
	assert.Equal(t, "u2", gw.created[0].ID)
	assert.False(t, gw.created[0].IsAdmin, "registration never grants admin")
	assert.True(t, gw.created[0].IsComplete)

	assert.Equal(t, "u2", sess.UserID)
	assert.False(t, sess.NeedsSetup)
	require.NotNil(t, sess.Profile)
	assert.Equal(t, "New User", sess.Profile.FullName())

	_, ok := st.Profile("u2")
	assert.True(t, ok)
}

func TestRegisterEmailExists(t *testing.T) {
	identity := identityServer(t, http.StatusBadRequest, map[string]any{
		"error": map[string]any{"message": "EMAIL_EXISTS"},
	})
	svc := NewService(newFakeProfileGateway(), state.New(), testTokens(), identity, nil, nil)

	_, err := svc.Register(context.Background(), "a@b.com", "secret123", "A", "B")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "An account with this email already exists", authErr.Message)
}

func TestFromIDTokenVerifies(t *testing.T) {
	gw := newFakeProfileGateway()
	gw.profiles["u3"] = models.UserProfile{ID: "u3", Email: "sdk@b.com", IsComplete: true}
	svc := NewService(gw, state.New(), testTokens(), nil, staticVerifier{uid: "u3", email: "sdk@b.com"}, nil)

	sess, err := svc.FromIDToken(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, "u3", sess.UserID)
}

func TestFromIDTokenRejected(t *testing.T) {
	svc := NewService(newFakeProfileGateway(), state.New(), testTokens(), nil, staticVerifier{err: errors.New("bad token")}, nil)
	_, err := svc.FromIDToken(context.Background(), "forged")
	assert.Error(t, err)
}

func TestUpdateProfileReadsBack(t *testing.T) {
	gw := newFakeProfileGateway()
	gw.profiles["u1"] = models.UserProfile{ID: "u1", FirstName: "Ada", IsComplete: true}
	st := state.New()
	svc := NewService(gw, st, testTokens(), nil, nil, nil)

	p, err := svc.UpdateProfile(context.Background(), "u1", map[string]any{"bio": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", p.Bio)

	mirrored, ok := st.Profile("u1")
	require.True(t, ok)
	assert.Equal(t, "hello", mirrored.Bio)
}

func TestSignOutClearsUserState(t *testing.T) {
	gw := newFakeProfileGateway()
	st := state.New()
	st.Dispatch(state.ProfileLoaded{Profile: models.UserProfile{ID: "u1", FirstName: "Ada"}})
	st.Dispatch(state.WatchlistAdded{Entry: models.WatchlistEntry{ID: "w1", UserID: "u1", MovieID: "m1"}})
	svc := NewService(gw, st, testTokens(), nil, nil, nil)

	gen := st.Generation()
	svc.SignOut("u1")

	_, ok := st.Profile("u1")
	assert.False(t, ok)
	assert.Empty(t, st.Watchlist("u1"))
	assert.NotEqual(t, gen, st.Generation(), "sign-out invalidates in-flight loads")
}
