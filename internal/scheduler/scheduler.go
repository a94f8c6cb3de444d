// Package scheduler runs the periodic matching/firing loop: every tick
// it scans the stored reminders, delivers due notices and advances or
// retires the fired records.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/notexe/remind-bot/internal/reminder"
	"github.com/notexe/remind-bot/internal/timeconv"
)

// Notifier delivers a rendered message to a user. Delivery is
// at-most-once: a failure is logged and swallowed, never retried.
type Notifier interface {
	Notify(ctx context.Context, owner, message string) error
}

// Scheduler drives the reminder check on a fixed tick.
type Scheduler struct {
	store         *reminder.Store
	notifier      Notifier
	conv          *timeconv.Converter
	period        time.Duration
	notifyTimeout time.Duration

	now func() time.Time
}

// New creates a Scheduler. period is the tick interval (nominally one
// minute); notifyTimeout bounds each delivery attempt.
func New(store *reminder.Store, notifier Notifier, conv *timeconv.Converter, period, notifyTimeout time.Duration) *Scheduler {
	return &Scheduler{
		store:         store,
		notifier:      notifier,
		conv:          conv,
		period:        period,
		notifyTimeout: notifyTimeout,
		now:           time.Now,
	}
}

// Run blocks and runs Tick on every period boundary, plus immediately on
// start. It exits when ctx is cancelled. A tick in flight is never
// interrupted mid-record; shutdown at worst loses that tick's save.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.period <= 0 {
		return fmt.Errorf("tick period must be positive, got %s", s.period)
	}

	log.Printf("[scheduler] started, tick period %s", s.period)

	s.Tick(ctx)

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[scheduler] shutting down...")
			return nil
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one scan: snapshot the store, evaluate every reminder
// against the window [tickStart, tickStart+period), deliver due notices
// and apply advance/retire decisions. A load failure abandons the tick
// without mutating anything; the next tick retries.
func (s *Scheduler) Tick(ctx context.Context) {
	tickStart := s.now().UTC().Truncate(time.Minute)

	snapshot, err := s.store.Load()
	if err != nil {
		log.Printf("[scheduler] load failed, skipping tick: %v", err)
		return
	}

	for _, r := range snapshot {
		d := reminder.Evaluate(tickStart, s.period, r)

		for _, ev := range d.Events {
			s.deliver(ctx, ev)
		}

		if err := s.apply(r, d); err != nil {
			log.Printf("[scheduler] failed to apply decision for reminder %s: %v", r.ID, err)
		}
	}
}

// apply persists one reminder's next state. Mutations are keyed by the
// durable ID and each runs as its own atomic read-modify-write, so a
// command handler's concurrent append or offset update is never lost to
// a whole-collection overwrite.
func (s *Scheduler) apply(r reminder.Reminder, d reminder.Decision) error {
	byID := func(stored reminder.Reminder) bool { return stored.ID == r.ID }

	switch {
	case d.Next == nil:
		_, err := s.store.RemoveWhere(byID)
		return err
	case !d.Next.DueAt.Equal(r.DueAt):
		next := d.Next.DueAt
		_, err := s.store.UpdateWhere(byID, func(stored *reminder.Reminder) {
			stored.DueAt = next
		})
		return err
	default:
		return nil
	}
}

// deliver attempts one notification, bounded by notifyTimeout. The
// deadline is enforced here, not just passed down: a notifier that
// ignores its context cannot stall the tick past the timeout.
func (s *Scheduler) deliver(ctx context.Context, ev reminder.Event) {
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.notifier.Notify(ctx, ev.Reminder.Owner, s.render(ev))
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Printf("[scheduler] failed to notify %s: %v", ev.Reminder.Owner, err)
		}
	case <-ctx.Done():
		log.Printf("[scheduler] notify %s timed out after %s", ev.Reminder.Owner, s.notifyTimeout)
	}
}

func (s *Scheduler) render(ev reminder.Event) string {
	when := s.conv.FormatLocal(ev.Reminder.DueAt)
	if ev.Kind == reminder.PreNotice {
		return fmt.Sprintf("⏰ (Pre-Reminder) %s at %s", ev.Reminder.Text, when)
	}
	return fmt.Sprintf("🔔 Reminder: %s (scheduled for %s)", ev.Reminder.Text, when)
}
