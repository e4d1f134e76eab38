package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pe4924/ReserveEase/pkg/config"
	appErrors "github.com/pe4924/ReserveEase/pkg/errors"
)

func newSupabase(t *testing.T, handler http.HandlerFunc) *Supabase {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSupabase(config.AuthConfig{URL: srv.URL, AnonKey: "anon", Timeout: 2 * time.Second}, nil)
}

func TestSignInWithPassword(t *testing.T) {
	sb := newSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/token", r.URL.Path)
		require.Equal(t, "password", r.URL.Query().Get("grant_type"))
		require.Equal(t, "anon", r.Header.Get("apikey"))
		_ = json.NewEncoder(w).Encode(Session{
			AccessToken: "at-1",
			User:        AuthUser{ID: "u-1", Email: "a@example.com"},
		})
	})

	session, err := sb.SignInWithPassword(context.Background(), "a@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "at-1", session.AccessToken)
	assert.Equal(t, "u-1", session.User.ID)
	assert.Equal(t, "at-1", sb.AccessToken())
}

func TestSignInWithPasswordBadCredentials(t *testing.T) {
	sb := newSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
	})

	_, err := sb.SignInWithPassword(context.Background(), "a@example.com", "wrong")

	require.Error(t, err)
	// Unknown account and wrong password collapse into the same error.
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
	assert.Equal(t, "メールアドレス、またはパスワードが違います", appErrors.FromError(err).Message)
	assert.Equal(t, "", sb.AccessToken())
}

func TestSignUpWithConfirm(t *testing.T) {
	sb := newSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"user": map[string]string{"id": "u-5", "email": "e@example.com"},
		})
	})

	user, err := sb.SignUpWithConfirm(context.Background(), "e@example.com", "secret", "secret")

	require.NoError(t, err)
	assert.Equal(t, "u-5", user.ID)
}

func TestSignUpWithConfirmMismatch(t *testing.T) {
	sb := newSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("mismatched passwords must not reach the auth service")
	})

	_, err := sb.SignUpWithConfirm(context.Background(), "e@example.com", "secret", "secert")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, "パスワードが一致しません", appErrors.FromError(err).Message)
}

func TestSignUpReturnsUser(t *testing.T) {
	sb := newSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/signup", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"user": map[string]string{"id": "u-2", "email": "b@example.com"},
		})
	})

	user, err := sb.SignUp(context.Background(), "b@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "u-2", user.ID)
}

func TestSignUpFlatUserShape(t *testing.T) {
	// GoTrue returns the user object at the top level when confirmation
	// mails are enabled.
	sb := newSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "u-3", "email": "c@example.com"})
	})

	user, err := sb.SignUp(context.Background(), "c@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "u-3", user.ID)
}

func TestCurrentUserRequiresSession(t *testing.T) {
	sb := newSupabase(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := sb.CurrentUser(context.Background())

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestCurrentUserAfterSignIn(t *testing.T) {
	sb := newSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			_ = json.NewEncoder(w).Encode(Session{AccessToken: "at-9", User: AuthUser{ID: "u-9"}})
		case "/auth/v1/user":
			require.Equal(t, "Bearer at-9", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(AuthUser{ID: "u-9", Email: "d@example.com"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	_, err := sb.SignInWithPassword(context.Background(), "d@example.com", "secret")
	require.NoError(t, err)

	user, err := sb.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-9", user.ID)
}

func TestSignOutClearsSession(t *testing.T) {
	sb := newSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			_ = json.NewEncoder(w).Encode(Session{AccessToken: "at-5", User: AuthUser{ID: "u-5"}})
		case "/auth/v1/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	_, err := sb.SignInWithPassword(context.Background(), "e@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, sb.SignOut(context.Background()))
	assert.Equal(t, "", sb.AccessToken())
}
