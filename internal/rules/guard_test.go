package rules

import (
	"context"
	"errors"
	"testing"
)

type fakeVenueDependents struct {
	venuesWithEvents map[uint64]bool
	anyErr           error
}

func (f *fakeVenueDependents) AnyAtVenue(ctx context.Context, venueID uint64) (bool, error) {
	if f.anyErr != nil {
		return false, f.anyErr
	}
	return f.venuesWithEvents[venueID], nil
}

func TestDeletionGuard_CanDeleteVenue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("blocks venue with dependent events", func(t *testing.T) {
		guard := NewDeletionGuard(
			&fakeVenueDependents{venuesWithEvents: map[uint64]bool{1: true}},
			&fakeBookingLedger{},
		)

		dec, err := guard.CanDeleteVenue(ctx, 1)
		if err != nil {
			t.Fatalf("can delete venue: %v", err)
		}
		if dec.OK || dec.Reason != ReasonVenueHasEvents {
			t.Fatalf("expected block %q, got ok=%v reason=%q", ReasonVenueHasEvents, dec.OK, dec.Reason)
		}
	})

	t.Run("allows venue without events", func(t *testing.T) {
		guard := NewDeletionGuard(&fakeVenueDependents{}, &fakeBookingLedger{})

		dec, err := guard.CanDeleteVenue(ctx, 2)
		if err != nil {
			t.Fatalf("can delete venue: %v", err)
		}
		if !dec.OK {
			t.Fatalf("expected allow, got %q", dec.Reason)
		}
	})

	t.Run("store failure propagates as error", func(t *testing.T) {
		storeErr := errors.New("bad connection")
		guard := NewDeletionGuard(&fakeVenueDependents{anyErr: storeErr}, &fakeBookingLedger{})

		if _, err := guard.CanDeleteVenue(ctx, 1); !errors.Is(err, storeErr) {
			t.Fatalf("expected store error, got %v", err)
		}
	})
}

func TestDeletionGuard_CanDeleteEvent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("blocks event with existing bookings", func(t *testing.T) {
		guard := NewDeletionGuard(
			&fakeVenueDependents{},
			&fakeBookingLedger{bookedEvents: map[uint64]bool{3: true}},
		)

		dec, err := guard.CanDeleteEvent(ctx, 3)
		if err != nil {
			t.Fatalf("can delete event: %v", err)
		}
		if dec.OK || dec.Reason != ReasonEventHasBookings {
			t.Fatalf("expected block %q, got ok=%v reason=%q", ReasonEventHasBookings, dec.OK, dec.Reason)
		}
	})

	t.Run("allows event without bookings", func(t *testing.T) {
		guard := NewDeletionGuard(&fakeVenueDependents{}, &fakeBookingLedger{})

		dec, err := guard.CanDeleteEvent(ctx, 4)
		if err != nil {
			t.Fatalf("can delete event: %v", err)
		}
		if !dec.OK {
			t.Fatalf("expected allow, got %q", dec.Reason)
		}
	})
}
