package reminder

import "time"

// EventKind distinguishes an early heads-up from the main notice.
type EventKind int

const (
	PreNotice EventKind = iota
	MainNotice
)

// Event is a single notification to deliver for a reminder.
type Event struct {
	Kind     EventKind
	Reminder Reminder
}

// Decision is the outcome of evaluating one reminder against one tick.
// Next is nil when the reminder should be retired; otherwise it is the
// state the store should hold after the tick (possibly unchanged).
type Decision struct {
	Events []Event
	Next   *Reminder
}

// inWindow reports whether t falls inside [tickStart, tickStart+period).
// Each instant belongs to exactly one tick as long as ticks are not
// skipped, so firing stays exactly-once even when the ticker drifts.
func inWindow(t, tickStart time.Time, period time.Duration) bool {
	return !t.Before(tickStart) && t.Before(tickStart.Add(period))
}

// Evaluate decides which notices a reminder produces for the tick that
// started at tickStart and what its next state is. Pure: r is never
// mutated, offsets are evaluated independently of the main event.
func Evaluate(tickStart time.Time, period time.Duration, r Reminder) Decision {
	var d Decision

	for _, m := range r.NotifyOffsets {
		if inWindow(r.DueAt.Add(-time.Duration(m)*time.Minute), tickStart, period) {
			d.Events = append(d.Events, Event{Kind: PreNotice, Reminder: r})
		}
	}

	if !inWindow(r.DueAt, tickStart, period) {
		d.Next = &r
		return d
	}

	d.Events = append(d.Events, Event{Kind: MainNotice, Reminder: r})

	switch r.Recurrence {
	case RepeatDaily:
		next := r
		next.DueAt = r.DueAt.AddDate(0, 0, 1)
		d.Next = &next
	case RepeatWeekly:
		next := r
		next.DueAt = r.DueAt.AddDate(0, 0, 7)
		d.Next = &next
	default:
		d.Next = nil
	}
	return d
}
