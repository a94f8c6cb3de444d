package reminder

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/notexe/remind-bot/internal/timeconv"
)

// Service implements the user-facing reminder operations shared by the
// chat commands and the MCP tools. Reminders are identified by the
// durable ID assigned here; the positional numbers users type are
// resolved against their current listing and never stored.
type Service struct {
	store *Store
	conv  *timeconv.Converter
}

// NewService creates a Service over the given store and time converter.
func NewService(store *Store, conv *timeconv.Converter) *Service {
	return &Service{store: store, conv: conv}
}

// Converter returns the time converter used for parsing and display.
func (s *Service) Converter() *timeconv.Converter {
	return s.conv
}

// Create validates and stores a new reminder. dateStr and timeStr are
// local wall-clock in the configured zone; DueAt is stored in UTC.
func (s *Service) Create(owner, dateStr, timeStr, text, recurrence string, offsets ...int) (*Reminder, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: reminder text must not be empty", ErrInvalidFormat)
	}
	if !ValidRecurrence(recurrence) {
		return nil, fmt.Errorf("%w: recurrence %q, want daily or weekly", ErrInvalidFormat, recurrence)
	}

	dueAt, err := s.conv.ParseLocal(dateStr, timeStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	for _, m := range offsets {
		if m < 0 {
			return nil, fmt.Errorf("%w: notify offset must not be negative", ErrInvalidFormat)
		}
	}

	r := Reminder{
		ID:            uuid.NewString(),
		Owner:         owner,
		Text:          text,
		DueAt:         dueAt,
		Recurrence:    recurrence,
		NotifyOffsets: offsets,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.AppendOne(r); err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns the owner's reminders in creation order.
func (s *Service) List(owner string) ([]Reminder, error) {
	rs, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	var mine []Reminder
	for _, r := range rs {
		if r.Owner == owner {
			mine = append(mine, r)
		}
	}
	return mine, nil
}

// AddNotifyOffset attaches a notify-before offset (spec like "30m",
// "2h", "1d") to the owner's index-th reminder (1-based, as shown by
// List). Returns the offset in minutes.
func (s *Service) AddNotifyOffset(owner string, index int, spec string) (int, error) {
	minutes, err := ParseOffsetSpec(spec)
	if err != nil {
		return 0, err
	}

	id, err := s.resolveIndex(owner, index)
	if err != nil {
		return 0, err
	}

	n, err := s.store.UpdateWhere(
		func(r Reminder) bool { return r.ID == id },
		func(r *Reminder) { r.NotifyOffsets = append(r.NotifyOffsets, minutes) },
	)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		// Retired or deleted between the listing and the update.
		return 0, ErrInvalidIndex
	}
	return minutes, nil
}

// Delete removes the owner's index-th reminder (1-based).
func (s *Service) Delete(owner string, index int) error {
	id, err := s.resolveIndex(owner, index)
	if err != nil {
		return err
	}

	n, err := s.store.RemoveWhere(func(r Reminder) bool { return r.ID == id })
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidIndex
	}
	return nil
}

// resolveIndex maps a 1-based position in the owner's listing to the
// reminder's durable ID. All mutations are keyed by that ID, so a
// concurrent reorder cannot redirect them to the wrong record.
func (s *Service) resolveIndex(owner string, index int) (string, error) {
	mine, err := s.List(owner)
	if err != nil {
		return "", err
	}
	if index < 1 || index > len(mine) {
		return "", ErrInvalidIndex
	}
	return mine[index-1].ID, nil
}
