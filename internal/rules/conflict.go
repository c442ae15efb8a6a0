package rules

import (
	"context"
	"fmt"

	"github.com/eventsystem/event-booking/internal/repository"
)

// EventCatalog fetches the events that can possibly conflict with a
// candidate: same venue, same calendar date, candidate itself excluded.
// *repository.EventRepo satisfies it.
type EventCatalog interface {
	ListByVenueAndDate(ctx context.Context, venueID uint64, date string, excludeID uint64) ([]repository.Event, error)
}

// ConflictChecker decides whether a candidate event's time interval
// collides with an existing event at the same venue on the same date.
type ConflictChecker struct {
	events EventCatalog
}

// NewConflictChecker constructs a ConflictChecker over the given catalog.
func NewConflictChecker(events EventCatalog) *ConflictChecker {
	if events == nil {
		panic("nil event catalog passed to NewConflictChecker")
	}
	return &ConflictChecker{events: events}
}

// CheckOverlap fetches every event at candidate's venue on candidate's
// date (excluding excludeID; pass 0 when creating) and rejects as soon as
// one of them overlaps the candidate's interval.  Intervals are half-open:
// an event ending exactly when another starts is not a conflict.  A pair
// is only comparable when both sides carry a start and an end time;
// events without times never conflict.  Dates are compared as calendar
// dates only, so events on different dates are never fetched, let alone
// compared.
func (c *ConflictChecker) CheckOverlap(ctx context.Context, candidate repository.Event, excludeID uint64) (Decision, error) {
	existing, err := c.events.ListByVenueAndDate(ctx, candidate.VenueID, candidate.EventDate, excludeID)
	if err != nil {
		return Decision{}, err
	}
	for _, e := range existing {
		if overlaps(candidate, e) {
			return Rejected(fmt.Sprintf(
				"time overlaps with event %q (%s to %s) at this venue",
				e.Name, *e.StartTime, *e.EndTime,
			)), nil
		}
	}
	return Allowed(), nil
}

// overlaps reports whether two events collide on the wall clock.  The
// zero-padded "15:04:05" strings the repository carries order correctly
// under string comparison, so no parsing is needed.
func overlaps(a, b repository.Event) bool {
	if a.StartTime == nil || a.EndTime == nil || b.StartTime == nil || b.EndTime == nil {
		return false
	}
	return *a.StartTime < *b.EndTime && *a.EndTime > *b.StartTime
}
