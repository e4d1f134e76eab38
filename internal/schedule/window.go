// Package schedule implements reservation time-window construction: deriving
// a default start/end window from the date or time slot a user picked on the
// calendar, the bounded option sets the window may be edited within, and the
// display formatting rules for reservation timestamps.
package schedule

import (
	"fmt"
	"time"

	appErrors "github.com/pe4924/ReserveEase/pkg/errors"
)

const (
	// SlotMinutes is the granularity of the reservation grid.
	SlotMinutes = 15

	// DefaultStartHour and DefaultDurationHours apply when the anchor came
	// from a month-view day cell and carries no time of day.
	DefaultStartHour     = 10
	DefaultDurationHours = 2

	// OpenHour..LastStartHour bound the start hour; reservations may run
	// until CloseHour (midnight, expressed as hour 24 of the same day).
	OpenHour      = 8
	LastStartHour = 22
	CloseHour     = 24
)

// Window is a reservation time window under construction. All fields are
// small integers constrained by the option sets in options.go; the window is
// converted to absolute timestamps only at submission time.
type Window struct {
	Year        int
	Month       int
	Day         int
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// RoundUpMinute rounds a minute-of-hour up to the next slot boundary, modulo
// 60. Minutes past :45 wrap to 0, which drops the selection to the top of the
// same hour; the wrap is long-standing observable behavior and is kept as is.
func RoundUpMinute(minute int) int {
	return ((minute + SlotMinutes - 1) / SlotMinutes * SlotMinutes) % 60
}

// FromAnchor derives a default window from the clicked calendar position. An
// anchor at exactly midnight is treated as date-only (a month-view day cell)
// and gets the standard 10:00-12:00 slot; a timed anchor snaps to the grid.
func FromAnchor(anchor time.Time) Window {
	w := Window{
		Year:  anchor.Year(),
		Month: int(anchor.Month()),
		Day:   anchor.Day(),
	}

	dateOnly := anchor.Hour() == 0 && anchor.Minute() == 0
	if dateOnly {
		w.StartHour = DefaultStartHour
		w.StartMinute = 0
		w.EndHour = DefaultStartHour + DefaultDurationHours
		w.EndMinute = 0
		return w
	}

	w.StartHour = anchor.Hour()
	if w.StartHour > LastStartHour {
		w.StartHour = LastStartHour
	}
	w.StartMinute = RoundUpMinute(anchor.Minute())

	w.EndHour = w.StartHour + DefaultDurationHours
	if w.EndHour > CloseHour {
		w.EndHour = CloseHour
	}
	w.EndMinute = w.StartMinute

	return w
}

// Start returns the window's start as a local-time timestamp.
func (w Window) Start() time.Time {
	return time.Date(w.Year, time.Month(w.Month), w.Day, w.StartHour, w.StartMinute, 0, 0, time.Local)
}

// End returns the window's end as a local-time timestamp. Hour 24 normalises
// to midnight of the following day.
func (w Window) End() time.Time {
	return time.Date(w.Year, time.Month(w.Month), w.Day, w.EndHour, w.EndMinute, 0, 0, time.Local)
}

// Validate checks every field against its option set and requires the start
// to precede the end.
func (w Window) Validate() error {
	if w.Month < 1 || w.Month > 12 {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("month %d out of range", w.Month))
	}
	if max := DaysIn(w.Year, w.Month); w.Day < 1 || w.Day > max {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("day %d out of range for %d-%02d", w.Day, w.Year, w.Month))
	}
	if w.StartHour < OpenHour || w.StartHour > LastStartHour {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("start hour %d out of range", w.StartHour))
	}
	if w.EndHour < OpenHour || w.EndHour > CloseHour {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("end hour %d out of range", w.EndHour))
	}
	if !validMinute(w.StartMinute) || !validMinute(w.EndMinute) {
		return appErrors.Clone(appErrors.ErrValidation, "minutes must fall on a 15 minute boundary")
	}
	if !w.Start().Before(w.End()) {
		return appErrors.Clone(appErrors.ErrValidation, "start time must be before end time")
	}
	return nil
}

func validMinute(minute int) bool {
	return minute >= 0 && minute < 60 && minute%SlotMinutes == 0
}
