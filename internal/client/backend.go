// Package client holds the HTTP clients for the two external collaborators:
// the reservation REST backend and the managed auth service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pe4924/ReserveEase/pkg/config"
	appErrors "github.com/pe4924/ReserveEase/pkg/errors"
)

// EventRecord is a reservation row as served by the backend list endpoint.
// Timestamps stay as wire strings; the calendar layer owns parsing.
type EventRecord struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
	UserID      string `json:"user_id"`
	LastName    string `json:"last_name"`
}

// AddEventRequest is the create-reservation payload.
type AddEventRequest struct {
	UserID      string `json:"user_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// RegisterUserRequest is the sign-up profile payload.
type RegisterUserRequest struct {
	SupabaseID  string `json:"supabase_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// Backend is the REST client for the reservation API.
type Backend struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewBackend constructs a backend client from config.
func NewBackend(cfg config.BackendConfig, logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// ListEvents fetches the full reservation record set.
func (b *Backend) ListEvents(ctx context.Context) ([]EventRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/", nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "reservation list fetch failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, fmt.Sprintf("reservation list returned status %d", resp.StatusCode))
	}

	var records []EventRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "reservation list decode failed")
	}

	return records, nil
}

// AddEvent submits a create-reservation request. Any 2xx status is success;
// the response body is not consumed.
func (b *Backend) AddEvent(ctx context.Context, accessToken string, payload AddEventRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal add-event payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/add-events", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build add-event request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "reservation request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b.logger.Warn("add-event rejected", zap.Int("status", resp.StatusCode))
		return appErrors.Clone(appErrors.ErrUnavailable, fmt.Sprintf("reservation rejected with status %d", resp.StatusCode))
	}

	return nil
}

// RegisterUserInfo stores the profile collected during sign-up. On failure
// the backend replies with a {message} body which becomes the error message.
func (b *Backend) RegisterUserInfo(ctx context.Context, payload RegisterUserRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal register payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/register-user-info", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build register request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "user registration request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		if failure.Message == "" {
			failure.Message = fmt.Sprintf("user registration returned status %d", resp.StatusCode)
		}
		return appErrors.Clone(appErrors.ErrUnavailable, failure.Message)
	}

	return nil
}
