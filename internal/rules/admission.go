package rules

import (
	"context"

	"github.com/eventsystem/event-booking/internal/repository"
)

// Rejection reasons shared between the admission pre-check and the
// duplicate-key mapping in the booking handler, so a request that loses
// the insert race reads identically to one rejected up front.
const (
	ReasonEventNotFound      = "event not found"
	ReasonEventAlreadyBooked = "event already booked"
)

// EventDirectory answers existence queries about events.
// *repository.EventRepo satisfies it.
type EventDirectory interface {
	Exists(ctx context.Context, id uint64) (bool, error)
}

// BookingLedger answers whether an event already has a booking.
// *repository.BookingRepo satisfies it.
type BookingLedger interface {
	ExistsForEvent(ctx context.Context, eventID uint64) (bool, error)
}

// BookingAdmitter decides whether a candidate booking may be persisted.
type BookingAdmitter struct {
	events   EventDirectory
	bookings BookingLedger
}

// NewBookingAdmitter constructs a BookingAdmitter over the given stores.
func NewBookingAdmitter(events EventDirectory, bookings BookingLedger) *BookingAdmitter {
	if events == nil || bookings == nil {
		panic("nil store passed to NewBookingAdmitter")
	}
	return &BookingAdmitter{events: events, bookings: bookings}
}

// Admit applies the booking admission policy.  The existence check runs
// first: a booking against a missing event is reported as "event not
// found" even if a stale booking row for that ID were present, because
// the duplicate check is meaningless against a dangling reference.  The
// duplicate check then rejects any event that already has a booking, no
// matter which customer made it.  Both rejections are attributed to the
// event_id field.
func (a *BookingAdmitter) Admit(ctx context.Context, candidate repository.Booking) (Decision, error) {
	exists, err := a.events.Exists(ctx, candidate.EventID)
	if err != nil {
		return Decision{}, err
	}
	if !exists {
		return RejectedField("event_id", ReasonEventNotFound), nil
	}
	booked, err := a.bookings.ExistsForEvent(ctx, candidate.EventID)
	if err != nil {
		return Decision{}, err
	}
	if booked {
		return RejectedField("event_id", ReasonEventAlreadyBooked), nil
	}
	return Allowed(), nil
}
