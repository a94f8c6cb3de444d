package reminder

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Recurrence policies. An empty string means the reminder fires once and
// is retired.
const (
	RepeatNone   = ""
	RepeatDaily  = "daily"
	RepeatWeekly = "weekly"
)

// User-correctable errors, reported back to the requester without
// touching stored state.
var (
	ErrInvalidFormat = errors.New("invalid format")
	ErrInvalidIndex  = errors.New("invalid reminder number")
)

// Reminder is a scheduled notification owned by a single user.
type Reminder struct {
	ID            string    `json:"id"`
	Owner         string    `json:"owner"`
	Text          string    `json:"text"`
	DueAt         time.Time `json:"due_at"` // UTC, minute resolution
	Recurrence    string    `json:"recurrence,omitempty"`
	NotifyOffsets []int     `json:"notify_offsets,omitempty"` // minutes before DueAt
	CreatedAt     time.Time `json:"created_at"`
}

// ValidRecurrence reports whether s is a supported recurrence policy.
func ValidRecurrence(s string) bool {
	switch s {
	case RepeatNone, RepeatDaily, RepeatWeekly:
		return true
	}
	return false
}

// ParseOffsetSpec converts a notify-before spec like "10m", "2h" or "1d"
// into minutes (h is x60, d is x1440).
func ParseOffsetSpec(spec string) (int, error) {
	if len(spec) < 2 {
		return 0, fmt.Errorf("%w: offset %q, want a number followed by m, h or d", ErrInvalidFormat, spec)
	}
	value, err := strconv.Atoi(spec[:len(spec)-1])
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: offset %q, want a number followed by m, h or d", ErrInvalidFormat, spec)
	}
	switch spec[len(spec)-1] {
	case 'm':
		return value, nil
	case 'h':
		return value * 60, nil
	case 'd':
		return value * 1440, nil
	}
	return 0, fmt.Errorf("%w: offset %q, want a number followed by m, h or d", ErrInvalidFormat, spec)
}
