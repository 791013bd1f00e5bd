package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/emstack/emsgate"
	"github.com/emstack/emsgate/gateway"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Session is a freshly issued credential. User is nil when the backend
// returns only a token; the caller revalidates through Me.
type Session struct {
	Token string
	User  *emsgate.Profile
}

// AuthService talks to the /auth endpoints.
type AuthService struct {
	client *Client
}

// Auth returns the auth service for c.
func (c *Client) Auth() *AuthService {
	return &AuthService{client: c}
}

// loginResponse tolerates the backend's two token spellings and optional
// inline user object.
type loginResponse struct {
	Token       string          `json:"token"`
	AccessToken string          `json:"accessToken"`
	User        json.RawMessage `json:"user"`
}

// Login exchanges credentials for a session. The request is anonymous so a
// stale stored token cannot interfere with re-authentication.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (*Session, error) {
	return s.issue(gateway.WithAnonymous(ctx), "/auth/login", creds)
}

// Register creates an account and returns its first session.
func (s *AuthService) Register(ctx context.Context, reg Registration) (*Session, error) {
	return s.issue(gateway.WithAnonymous(ctx), "/auth/register", reg)
}

func (s *AuthService) issue(ctx context.Context, path string, body any) (*Session, error) {
	var resp loginResponse
	if err := s.client.post(ctx, path, body, &resp); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %v", emsgate.ErrInvalidCredentials, err)
		}
		return nil, err
	}

	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	if token == "" {
		return nil, fmt.Errorf("api: %s: response carries no token", path)
	}

	session := &Session{Token: token}
	if len(resp.User) > 0 && string(resp.User) != "null" {
		var user emsgate.Profile
		if err := json.Unmarshal(resp.User, &user); err != nil {
			return nil, fmt.Errorf("api: decode user: %w", err)
		}
		session.User = &user
	}
	return session, nil
}

// Me fetches the profile behind the current token.
func (s *AuthService) Me(ctx context.Context) (*emsgate.Profile, error) {
	var user emsgate.Profile
	if err := s.client.get(ctx, "/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FetchProfile implements emsgate.ProfileFetcher.
func (s *AuthService) FetchProfile(ctx context.Context) (*emsgate.Profile, error) {
	return s.Me(ctx)
}
