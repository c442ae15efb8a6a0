package rules

import "context"

// Deletion block reasons.  The repositories re-check the same conditions
// inside the delete transaction; these strings are what the API reports
// either way.
const (
	ReasonVenueHasEvents   = "venue has associated events"
	ReasonEventHasBookings = "event has existing bookings"
)

// VenueDependents answers whether any event still references a venue.
// *repository.EventRepo satisfies it.
type VenueDependents interface {
	AnyAtVenue(ctx context.Context, venueID uint64) (bool, error)
}

// DeletionGuard blocks deletes that would orphan dependent rows.  It is
// a pre-check producing the user-facing reason; atomicity against
// concurrent inserts comes from the repositories' DeleteGuarded methods,
// which repeat the dependency check inside the delete transaction.
type DeletionGuard struct {
	events   VenueDependents
	bookings BookingLedger
}

// NewDeletionGuard constructs a DeletionGuard over the given stores.
func NewDeletionGuard(events VenueDependents, bookings BookingLedger) *DeletionGuard {
	if events == nil || bookings == nil {
		panic("nil store passed to NewDeletionGuard")
	}
	return &DeletionGuard{events: events, bookings: bookings}
}

// CanDeleteVenue blocks the delete while any event references the venue.
func (g *DeletionGuard) CanDeleteVenue(ctx context.Context, venueID uint64) (Decision, error) {
	dependent, err := g.events.AnyAtVenue(ctx, venueID)
	if err != nil {
		return Decision{}, err
	}
	if dependent {
		return Rejected(ReasonVenueHasEvents), nil
	}
	return Allowed(), nil
}

// CanDeleteEvent blocks the delete while any booking references the event.
func (g *DeletionGuard) CanDeleteEvent(ctx context.Context, eventID uint64) (Decision, error) {
	dependent, err := g.bookings.ExistsForEvent(ctx, eventID)
	if err != nil {
		return Decision{}, err
	}
	if dependent {
		return Rejected(ReasonEventHasBookings), nil
	}
	return Allowed(), nil
}
