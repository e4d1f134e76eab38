package calendar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pe4924/ReserveEase/internal/client"
	"github.com/pe4924/ReserveEase/internal/schedule"
)

// EventSource lists reservation records. Satisfied by *client.Backend.
type EventSource interface {
	ListEvents(ctx context.Context) ([]client.EventRecord, error)
}

// Event is a reservation mapped for calendar display.
type Event struct {
	Title       string
	Start       time.Time
	End         time.Time
	Description string
}

// EventDetails is the read-only detail of a clicked event, with the display
// strings precomputed.
type EventDetails struct {
	Title       string
	Start       string
	End         string
	Description string
	Duration    string
}

// View holds the calendar's event list and current overlay state.
type View struct {
	source EventSource
	logger *zap.Logger

	events []Event
	state  ViewState
}

// NewView constructs a calendar view backed by the given event source.
func NewView(source EventSource, logger *zap.Logger) *View {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &View{source: source, logger: logger, state: NoneState()}
}

// LoadEvents fetches the full record set and replaces the displayed events.
// On failure the previous set stays visible; the error is logged, not shown.
func (v *View) LoadEvents(ctx context.Context) []Event {
	records, err := v.source.ListEvents(ctx)
	if err != nil {
		v.logger.Warn("event fetch failed, keeping displayed set", zap.Error(err))
		return v.events
	}

	events := make([]Event, 0, len(records))
	for _, rec := range records {
		event, err := mapRecord(rec)
		if err != nil {
			v.logger.Warn("skipping unmappable record", zap.Int64("id", rec.ID), zap.Error(err))
			continue
		}
		events = append(events, event)
	}

	v.events = events
	return v.events
}

// Events returns the currently displayed events.
func (v *View) Events() []Event {
	return v.events
}

// EventClick opens the read-only detail overlay for the clicked event.
func (v *View) EventClick(event Event) EventDetails {
	details := EventDetails{
		Title:       event.Title,
		Start:       schedule.FormatJST(event.Start),
		End:         schedule.FormatJST(event.End),
		Description: event.Description,
		Duration:    schedule.DurationLabel(event.Start, event.End),
	}
	v.state = DetailState(details)
	return details
}

// DateClick opens the reservation builder for the clicked date, closing the
// detail overlay if it was open.
func (v *View) DateClick(anchor time.Time) time.Time {
	v.state = BuildingState(anchor)
	return anchor
}

// Dismiss closes whichever overlay is open.
func (v *View) Dismiss() {
	v.state = NoneState()
}

// State returns the current view state.
func (v *View) State() ViewState {
	return v.state
}

// mapRecord derives a display event from a reservation record. The owner's
// name is folded into the description, matching the list payload contract.
func mapRecord(rec client.EventRecord) (Event, error) {
	start, err := schedule.ParseTimestamp(rec.StartDate)
	if err != nil {
		return Event{}, fmt.Errorf("start date: %w", err)
	}
	end, err := schedule.ParseTimestamp(rec.EndDate)
	if err != nil {
		return Event{}, fmt.Errorf("end date: %w", err)
	}

	description := rec.Description
	if rec.LastName != "" {
		description = rec.LastName + " " + rec.Description
	}

	return Event{
		Title:       rec.Title,
		Start:       start,
		End:         end,
		Description: description,
	}, nil
}
