package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// AuthError is a coded identity-service failure translated to the fixed
// user-facing string the screens display.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// userMessage maps the identity service's error codes onto fixed
// human-readable strings. Unknown codes collapse to a generic message.
func userMessage(code string) string {
	switch {
	case code == "EMAIL_NOT_FOUND" || code == "USER_NOT_FOUND":
		return "No account found with this email address"
	case code == "INVALID_PASSWORD" || code == "INVALID_LOGIN_CREDENTIALS":
		return "Incorrect password"
	case code == "EMAIL_EXISTS":
		return "An account with this email already exists"
	case strings.HasPrefix(code, "WEAK_PASSWORD"):
		return "Password is too weak"
	case code == "INVALID_EMAIL":
		return "Invalid email address"
	default:
		return "An error occurred. Please try again."
	}
}

const identityEndpoint = "https://identitytoolkit.googleapis.com/v1"

// IdentityClient talks to the Firebase Identity Toolkit REST endpoints
// for credential-based sign-in and registration. Token verification
// goes through the Admin SDK instead (see NewVerifier).
type IdentityClient struct {
	APIKey   string
	BaseURL  string
	HTTPDoer *http.Client
}

func NewIdentityClient(apiKey string) *IdentityClient {
	return &IdentityClient{
		APIKey:   apiKey,
		BaseURL:  identityEndpoint,
		HTTPDoer: http.DefaultClient,
	}
}

type identityResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignInWithPassword exchanges credentials for the identity's uid.
func (c *IdentityClient) SignInWithPassword(ctx context.Context, email, password string) (uid string, err error) {
	return c.post(ctx, "accounts:signInWithPassword", email, password)
}

// SignUp registers a new identity and returns its uid.
func (c *IdentityClient) SignUp(ctx context.Context, email, password string) (uid string, err error) {
	return c.post(ctx, "accounts:signUp", email, password)
}

func (c *IdentityClient) post(ctx context.Context, action, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return "", fmt.Errorf("marshal identity request: %w", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.BaseURL, action, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTPDoer.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity request: %w", err)
	}
	defer res.Body.Close()

	var body identityResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode identity response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		code := "UNKNOWN"
		if body.Error != nil {
			code = body.Error.Message
		}
		return "", &AuthError{Code: code, Message: userMessage(code)}
	}
	return body.LocalID, nil
}

// TokenVerifier checks an ID token minted by the identity service and
// returns the subject it belongs to.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (uid, email string, err error)
}

type firebaseVerifier struct {
	client *auth.Client
}

// NewVerifier builds a TokenVerifier backed by the Firebase Admin SDK.
func NewVerifier(ctx context.Context, projectID, credentialsFile string) (TokenVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &firebaseVerifier{client: client}, nil
}

func (v *firebaseVerifier) Verify(ctx context.Context, idToken string) (string, string, error) {
	tok, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", "", fmt.Errorf("verify id token: %w", err)
	}
	email, _ := tok.Claims["email"].(string)
	return tok.UID, email, nil
}
