// Package calendar implements the reservation calendar's client-side logic:
// fetching and mapping reservation records into display events, the single
// view-state variant that keeps the detail and builder surfaces mutually
// exclusive, and the reservation builder state machine.
package calendar

import "time"

// ViewMode tags the current view state. At most one overlay is ever visible;
// the tag replaces the pair of booleans the old UI juggled.
type ViewMode int

const (
	ModeNone ViewMode = iota
	ModeDetail
	ModeBuilding
)

// ViewState is a tagged variant: None, Detail with the selected event, or
// Building with the selection anchor.
type ViewState struct {
	Mode   ViewMode
	Detail *EventDetails
	Anchor time.Time
}

// NoneState returns the idle view state.
func NoneState() ViewState {
	return ViewState{Mode: ModeNone}
}

// DetailState returns a view state showing the read-only detail overlay.
func DetailState(detail EventDetails) ViewState {
	return ViewState{Mode: ModeDetail, Detail: &detail}
}

// BuildingState returns a view state with the reservation builder open.
func BuildingState(anchor time.Time) ViewState {
	return ViewState{Mode: ModeBuilding, Anchor: anchor}
}
