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

func newBackend(t *testing.T, handler http.HandlerFunc) (*Backend, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	backend := NewBackend(config.BackendConfig{URL: srv.URL, Timeout: 2 * time.Second}, nil)
	return backend, srv
}

func TestListEvents(t *testing.T) {
	backend, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]EventRecord{
			{ID: 1, Title: "A", StartDate: "2023-11-01T10:00", EndDate: "2023-11-01T11:45", Description: "x", UserID: "u", LastName: "Y"},
		})
	})

	records, err := backend.ListEvents(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A", records[0].Title)
	assert.Equal(t, "Y", records[0].LastName)
}

func TestListEventsServerError(t *testing.T) {
	backend, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := backend.ListEvents(context.Background())

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErrors.FromError(err).Code)
}

func TestListEventsBadJSON(t *testing.T) {
	backend, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := backend.ListEvents(context.Background())
	require.Error(t, err)
}

func TestAddEvent(t *testing.T) {
	var captured AddEventRequest
	var authHeader string
	backend, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/add-events", r.URL.Path)
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusCreated)
	})

	err := backend.AddEvent(context.Background(), "token-1", AddEventRequest{
		UserID:    "u-1",
		StartDate: "2023-11-08T10:00:00+09:00",
		EndDate:   "2023-11-08T12:00:00+09:00",
		Title:     "予約あり",
	})

	require.NoError(t, err)
	assert.Equal(t, "Bearer token-1", authHeader)
	assert.Equal(t, "u-1", captured.UserID)
	assert.Equal(t, "予約あり", captured.Title)
}

func TestAddEventRejected(t *testing.T) {
	backend, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	err := backend.AddEvent(context.Background(), "", AddEventRequest{})
	require.Error(t, err)
}

func TestRegisterUserInfoFailureMessage(t *testing.T) {
	backend, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/register-user-info", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "already registered"})
	})

	err := backend.RegisterUserInfo(context.Background(), RegisterUserRequest{SupabaseID: "u-1"})

	require.Error(t, err)
	assert.Equal(t, "already registered", appErrors.FromError(err).Message)
}

func TestRegisterUserInfoSuccess(t *testing.T) {
	backend, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	require.NoError(t, backend.RegisterUserInfo(context.Background(), RegisterUserRequest{SupabaseID: "u-1"}))
}
