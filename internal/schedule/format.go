package schedule

import (
	"fmt"
	"time"
)

// JST is the display timezone for all reservation timestamps. A fixed offset
// avoids a tzdata dependency; Japan does not observe DST.
var JST = time.FixedZone("JST", 9*60*60)

// FormatJST renders a timestamp as zero-padded year/month/day hour:minute in
// Japan Standard Time. The format is an external display contract.
func FormatJST(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(JST).Format("2006/01/02 15:04")
}

// DurationLabel renders the span between start and end as "N時間M分". Hours
// are truncated while the minute remainder is rounded; the asymmetry matches
// the label users have always seen.
func DurationLabel(start, end time.Time) string {
	if start.IsZero() || end.IsZero() {
		return ""
	}

	diff := end.Sub(start)
	hours := int(diff / time.Hour)
	minutes := int((diff % time.Hour).Round(time.Minute) / time.Minute)

	return fmt.Sprintf("%d時間%d分", hours, minutes)
}

// timestampLayouts are the accepted wire formats for reservation timestamps,
// most specific first. The legacy backend emitted offset-less local times.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseTimestamp parses a reservation timestamp in any accepted wire format.
// Offset-less values are interpreted as local time.
func ParseTimestamp(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, raw, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: %w", raw, lastErr)
}
