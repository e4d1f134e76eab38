package calendar

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pe4924/ReserveEase/internal/client"
	"github.com/pe4924/ReserveEase/internal/schedule"
	appErrors "github.com/pe4924/ReserveEase/pkg/errors"
)

// DefaultTitle is the title every reservation is submitted with.
const DefaultTitle = "予約あり"

// BuilderState enumerates the reservation builder's lifecycle.
type BuilderState int

const (
	StateIdle BuilderState = iota
	// StateAnchorReceived is passed through inside Receive: anchor in,
	// window derived, straight on to editing.
	StateAnchorReceived
	StateEditing
	StateSubmitting
	StateComplete
)

// Submitter sends create-reservation requests. Satisfied by *client.Backend.
type Submitter interface {
	AddEvent(ctx context.Context, accessToken string, payload client.AddEventRequest) error
}

// Builder turns a selection anchor into a bounded reservation window and
// submits it. A failed submission returns to Editing with the fields
// retained and the error kept for display.
type Builder struct {
	backend Submitter
	auth    client.AuthSession
	logger  *zap.Logger

	state   BuilderState
	window  schedule.Window
	lastErr *appErrors.Error
}

// NewBuilder constructs a reservation builder. The auth session is an
// injected capability; the builder never reaches for a global client.
func NewBuilder(backend Submitter, auth client.AuthSession, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{backend: backend, auth: auth, logger: logger, state: StateIdle}
}

// Receive seeds the builder with a selection anchor, deriving the default
// window and entering the editing state.
func (b *Builder) Receive(anchor time.Time) schedule.Window {
	b.state = StateAnchorReceived
	b.window = schedule.FromAnchor(anchor)
	b.state = StateEditing
	b.lastErr = nil
	return b.window
}

// Window returns the window under construction.
func (b *Builder) Window() schedule.Window {
	return b.window
}

// SetWindow replaces the window with user edits. Values outside the option
// sets are rejected up front rather than at submission.
func (b *Builder) SetWindow(w schedule.Window) error {
	if b.state != StateEditing {
		return appErrors.Clone(appErrors.ErrConflict, "no reservation being edited")
	}
	b.window = w
	return nil
}

// State returns the builder's lifecycle state.
func (b *Builder) State() BuilderState {
	return b.state
}

// Err returns the error from the last failed submission, if any.
func (b *Builder) Err() *appErrors.Error {
	return b.lastErr
}

// Submit validates the window, resolves the signed-in user, and posts the
// reservation. On success the builder completes; on failure it returns to
// editing with the fields retained and the error surfaced to the caller.
func (b *Builder) Submit(ctx context.Context) error {
	if b.state != StateEditing {
		return appErrors.Clone(appErrors.ErrConflict, "no reservation being edited")
	}

	if err := b.window.Validate(); err != nil {
		return b.fail(err)
	}

	b.state = StateSubmitting

	user, err := b.auth.CurrentUser(ctx)
	if err != nil {
		return b.fail(err)
	}

	payload := client.AddEventRequest{
		UserID:      user.ID,
		StartDate:   b.window.Start().Format(time.RFC3339),
		EndDate:     b.window.End().Format(time.RFC3339),
		Title:       DefaultTitle,
		Description: "",
	}

	if err := b.backend.AddEvent(ctx, b.auth.AccessToken(), payload); err != nil {
		b.logger.Warn("reservation submission failed", zap.Error(err))
		return b.fail(err)
	}

	b.state = StateComplete
	b.lastErr = nil
	return nil
}

// Dismiss acknowledges the completion modal and returns the builder to idle.
func (b *Builder) Dismiss() {
	b.state = StateIdle
	b.lastErr = nil
}

func (b *Builder) fail(err error) error {
	b.state = StateEditing
	b.lastErr = appErrors.FromError(err)
	return err
}
