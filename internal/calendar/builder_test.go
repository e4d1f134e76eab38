package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pe4924/ReserveEase/internal/client"
	appErrors "github.com/pe4924/ReserveEase/pkg/errors"
)

type submitterStub struct {
	captured client.AddEventRequest
	token    string
	err      error
	calls    int
}

func (s *submitterStub) AddEvent(ctx context.Context, accessToken string, payload client.AddEventRequest) error {
	s.calls++
	s.token = accessToken
	s.captured = payload
	return s.err
}

type authStub struct {
	user  *client.AuthUser
	err   error
	token string
}

func (a *authStub) SignInWithPassword(ctx context.Context, email, password string) (*client.Session, error) {
	return nil, nil
}

func (a *authStub) SignUp(ctx context.Context, email, password string) (*client.AuthUser, error) {
	return nil, nil
}

func (a *authStub) SignOut(ctx context.Context) error { return nil }

func (a *authStub) CurrentUser(ctx context.Context) (*client.AuthUser, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.user, nil
}

func (a *authStub) AccessToken() string { return a.token }

func TestBuilderReceiveDerivesWindow(t *testing.T) {
	builder := NewBuilder(&submitterStub{}, &authStub{}, nil)

	w := builder.Receive(time.Date(2023, 11, 8, 0, 0, 0, 0, time.Local))

	assert.Equal(t, StateEditing, builder.State())
	assert.Equal(t, 10, w.StartHour)
	assert.Equal(t, 12, w.EndHour)
}

func TestBuilderSubmitSuccess(t *testing.T) {
	backend := &submitterStub{}
	auth := &authStub{user: &client.AuthUser{ID: "u-1"}, token: "at-1"}
	builder := NewBuilder(backend, auth, nil)
	builder.Receive(time.Date(2023, 11, 8, 10, 0, 0, 0, time.Local))

	err := builder.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateComplete, builder.State())
	assert.Nil(t, builder.Err())
	assert.Equal(t, "u-1", backend.captured.UserID)
	assert.Equal(t, "at-1", backend.token)
	assert.Equal(t, DefaultTitle, backend.captured.Title)
	assert.Equal(t, "", backend.captured.Description)

	start, parseErr := time.Parse(time.RFC3339, backend.captured.StartDate)
	require.NoError(t, parseErr)
	assert.Equal(t, 10, start.Hour())

	builder.Dismiss()
	assert.Equal(t, StateIdle, builder.State())
}

func TestBuilderSubmitRejectsInvertedWindow(t *testing.T) {
	backend := &submitterStub{}
	builder := NewBuilder(backend, &authStub{user: &client.AuthUser{ID: "u-1"}}, nil)
	builder.Receive(time.Date(2023, 11, 8, 14, 0, 0, 0, time.Local))

	w := builder.Window()
	w.EndHour = 12
	require.NoError(t, builder.SetWindow(w))

	err := builder.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, 0, backend.calls)
	assert.Equal(t, StateEditing, builder.State())
	require.NotNil(t, builder.Err())
	assert.Equal(t, appErrors.ErrValidation.Code, builder.Err().Code)
}

func TestBuilderSubmitBackendFailureReturnsToEditing(t *testing.T) {
	backend := &submitterStub{err: appErrors.Clone(appErrors.ErrUnavailable, "reservation rejected with status 500")}
	builder := NewBuilder(backend, &authStub{user: &client.AuthUser{ID: "u-1"}}, nil)
	builder.Receive(time.Date(2023, 11, 8, 10, 0, 0, 0, time.Local))
	before := builder.Window()

	err := builder.Submit(context.Background())

	require.Error(t, err)
	// Fields are retained and the failure is surfaced, not swallowed.
	assert.Equal(t, StateEditing, builder.State())
	assert.Equal(t, before, builder.Window())
	require.NotNil(t, builder.Err())
	assert.Equal(t, appErrors.ErrUnavailable.Code, builder.Err().Code)
}

func TestBuilderSubmitRequiresSignedInUser(t *testing.T) {
	backend := &submitterStub{}
	builder := NewBuilder(backend, &authStub{err: appErrors.Clone(appErrors.ErrUnauthorized, "not signed in")}, nil)
	builder.Receive(time.Date(2023, 11, 8, 10, 0, 0, 0, time.Local))

	err := builder.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, 0, backend.calls)
	assert.Equal(t, StateEditing, builder.State())
}

func TestBuilderSubmitWithoutAnchor(t *testing.T) {
	builder := NewBuilder(&submitterStub{}, &authStub{}, nil)

	err := builder.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, StateIdle, builder.State())
}

func TestBuilderSetWindowOutsideEditing(t *testing.T) {
	builder := NewBuilder(&submitterStub{}, &authStub{}, nil)

	err := builder.SetWindow(builder.Window())

	require.Error(t, err)
}
