// Package timeconv converts between user-entered local date/time strings
// and UTC instants. All stored times are UTC; local time only ever exists
// at the edges (parsing user input, rendering messages).
package timeconv

import (
	"fmt"
	"time"
)

const (
	// DateLayout and TimeLayout are what users type: 2025-08-05 14:30.
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// DisplayLayout is the 12-hour rendering used in outgoing messages.
	DisplayLayout = "2006-01-02 03:04 PM"
)

// Converter translates between one fixed IANA zone and UTC.
type Converter struct {
	loc *time.Location
}

// New loads the given IANA zone name (e.g. "US/Eastern").
func New(zone string) (*Converter, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", zone, err)
	}
	return &Converter{loc: loc}, nil
}

// Zone returns the configured zone name.
func (c *Converter) Zone() string {
	return c.loc.String()
}

// ParseLocal parses a YYYY-MM-DD date and 24-hour HH:MM time in the
// converter's zone and returns the equivalent UTC instant. Impossible
// calendar dates (2025-02-30) are rejected, not normalized.
func (c *Converter) ParseLocal(dateStr, timeStr string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, dateStr+" "+timeStr, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", dateStr, timeStr, err)
	}
	return t.UTC(), nil
}

// FormatLocal renders an instant in the converter's zone with a 12-hour
// clock. Display only; the stored instant stays UTC.
func (c *Converter) FormatLocal(t time.Time) string {
	return t.In(c.loc).Format(DisplayLayout)
}
