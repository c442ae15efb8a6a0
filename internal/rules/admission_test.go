package rules

import (
	"context"
	"errors"
	"testing"

	"github.com/eventsystem/event-booking/internal/repository"
)

type fakeEventDirectory struct {
	ids       map[uint64]bool
	existsErr error
}

func (f *fakeEventDirectory) Exists(ctx context.Context, id uint64) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.ids[id], nil
}

type fakeBookingLedger struct {
	bookedEvents map[uint64]bool
	existsErr    error
}

func (f *fakeBookingLedger) ExistsForEvent(ctx context.Context, eventID uint64) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.bookedEvents[eventID], nil
}

func TestBookingAdmitter_Admit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("admits when event exists and is unbooked", func(t *testing.T) {
		admitter := NewBookingAdmitter(
			&fakeEventDirectory{ids: map[uint64]bool{1: true}},
			&fakeBookingLedger{},
		)

		dec, err := admitter.Admit(ctx, repository.Booking{EventID: 1, CustomerName: "Alice", Tickets: 2})
		if err != nil {
			t.Fatalf("admit: %v", err)
		}
		if !dec.OK {
			t.Fatalf("expected admit, got %q", dec.Reason)
		}
	})

	t.Run("rejects unknown event", func(t *testing.T) {
		admitter := NewBookingAdmitter(&fakeEventDirectory{}, &fakeBookingLedger{})

		dec, err := admitter.Admit(ctx, repository.Booking{EventID: 99})
		if err != nil {
			t.Fatalf("admit: %v", err)
		}
		if dec.OK || dec.Reason != ReasonEventNotFound {
			t.Fatalf("expected %q, got ok=%v reason=%q", ReasonEventNotFound, dec.OK, dec.Reason)
		}
		if dec.Field != "event_id" {
			t.Fatalf("expected rejection attributed to event_id, got %q", dec.Field)
		}
	})

	t.Run("rejects already booked event regardless of customer", func(t *testing.T) {
		admitter := NewBookingAdmitter(
			&fakeEventDirectory{ids: map[uint64]bool{1: true}},
			&fakeBookingLedger{bookedEvents: map[uint64]bool{1: true}},
		)

		// Different customer and ticket count than whoever booked first;
		// the policy is per event, not per customer.
		dec, err := admitter.Admit(ctx, repository.Booking{EventID: 1, CustomerName: "Bob", CustomerEmail: "bob@example.com", Tickets: 1})
		if err != nil {
			t.Fatalf("admit: %v", err)
		}
		if dec.OK || dec.Reason != ReasonEventAlreadyBooked {
			t.Fatalf("expected %q, got ok=%v reason=%q", ReasonEventAlreadyBooked, dec.OK, dec.Reason)
		}
		if dec.Field != "event_id" {
			t.Fatalf("expected rejection attributed to event_id, got %q", dec.Field)
		}
	})

	t.Run("missing event takes precedence over stale booking row", func(t *testing.T) {
		// Both conditions hold; the not-found report must win because
		// the duplicate check has no meaning for a dangling reference.
		admitter := NewBookingAdmitter(
			&fakeEventDirectory{},
			&fakeBookingLedger{bookedEvents: map[uint64]bool{5: true}},
		)

		dec, err := admitter.Admit(ctx, repository.Booking{EventID: 5})
		if err != nil {
			t.Fatalf("admit: %v", err)
		}
		if dec.Reason != ReasonEventNotFound {
			t.Fatalf("expected %q to take precedence, got %q", ReasonEventNotFound, dec.Reason)
		}
	})

	t.Run("store failure propagates as error", func(t *testing.T) {
		storeErr := errors.New("io timeout")
		admitter := NewBookingAdmitter(
			&fakeEventDirectory{ids: map[uint64]bool{1: true}},
			&fakeBookingLedger{existsErr: storeErr},
		)

		_, err := admitter.Admit(ctx, repository.Booking{EventID: 1})
		if !errors.Is(err, storeErr) {
			t.Fatalf("expected store error, got %v", err)
		}
	})
}
