package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/pe4924/ReserveEase/pkg/config"
	appErrors "github.com/pe4924/ReserveEase/pkg/errors"
)

// User-facing auth failure messages, kept in Japanese.
const (
	credentialErrorMessage  = "メールアドレス、またはパスワードが違います"
	passwordMismatchMessage = "パスワードが一致しません"
)

// AuthUser identifies a user at the external auth service.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session carries the tokens issued after a successful sign-in.
type Session struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
	User         AuthUser `json:"user"`
}

// AuthSession is the capability the calendar components are handed instead of
// reaching for a shared auth singleton. The composition root owns the
// concrete client and its lifecycle.
type AuthSession interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*AuthUser, error)
	SignOut(ctx context.Context) error
	CurrentUser(ctx context.Context) (*AuthUser, error)
	AccessToken() string
}

// Supabase talks to a GoTrue-compatible auth endpoint. It keeps the active
// session in memory; there is no persisted local state.
type Supabase struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     *zap.Logger

	mu      sync.Mutex
	session *Session
}

// NewSupabase constructs the auth client from config.
func NewSupabase(cfg config.AuthConfig, logger *zap.Logger) *Supabase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Supabase{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		anonKey:    cfg.AnonKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// SignInWithPassword exchanges credentials for a session. Credential failures
// collapse into one generic error; the auth service does not distinguish
// unknown accounts from wrong passwords and neither do we.
func (s *Supabase) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{"email": email, "password": password}

	var session Session
	status, err := s.post(ctx, "/auth/v1/token?grant_type=password", payload, &session)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, credentialErrorMessage)
	}

	s.mu.Lock()
	s.session = &session
	s.mu.Unlock()

	return &session, nil
}

// SignUpWithConfirm checks the retyped password before registering. The
// mismatch is rejected locally; no request leaves the client.
func (s *Supabase) SignUpWithConfirm(ctx context.Context, email, password, passwordConfirm string) (*AuthUser, error) {
	if password != passwordConfirm {
		return nil, appErrors.Clone(appErrors.ErrValidation, passwordMismatchMessage)
	}
	return s.SignUp(ctx, email, password)
}

// SignUp registers a new account and returns the created user. The account
// stays unconfirmed until the verification mail is acted on.
func (s *Supabase) SignUp(ctx context.Context, email, password string) (*AuthUser, error) {
	payload := map[string]string{"email": email, "password": password}

	var created struct {
		ID    string   `json:"id"`
		Email string   `json:"email"`
		User  AuthUser `json:"user"`
	}
	status, err := s.post(ctx, "/auth/v1/signup", payload, &created)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, credentialErrorMessage)
	}

	user := created.User
	if user.ID == "" {
		user = AuthUser{ID: created.ID, Email: created.Email}
	}
	return &user, nil
}

// SignOut revokes the current session.
func (s *Supabase) SignOut(ctx context.Context) error {
	token := s.AccessToken()
	if token == "" {
		return nil
	}

	status, err := s.postAuthorized(ctx, "/auth/v1/logout", token)
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		s.logger.Warn("sign-out returned non-2xx", zap.Int("status", status))
	}
	return nil
}

// CurrentUser returns the signed-in user, consulting the auth service.
func (s *Supabase) CurrentUser(ctx context.Context) (*AuthUser, error) {
	token := s.AccessToken()
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "not signed in")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build user request: %w", err)
	}
	s.decorate(req)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "auth service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session expired")
	}

	var user AuthUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "auth response decode failed")
	}
	return &user, nil
}

// AccessToken returns the current session token, or empty when signed out.
func (s *Supabase) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ""
	}
	return s.session.AccessToken
}

func (s *Supabase) post(ctx context.Context, path string, payload interface{}, dest interface{}) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal auth payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build auth request: %w", err)
	}
	s.decorate(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "auth service unreachable")
	}
	defer resp.Body.Close()

	if dest != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return resp.StatusCode, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "auth response decode failed")
		}
	}
	return resp.StatusCode, nil
}

func (s *Supabase) postAuthorized(ctx context.Context, path, token string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("build auth request: %w", err)
	}
	s.decorate(req)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "auth service unreachable")
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

func (s *Supabase) decorate(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if s.anonKey != "" {
		req.Header.Set("apikey", s.anonKey)
	}
}
