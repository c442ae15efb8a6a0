package rules

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/eventsystem/event-booking/internal/repository"
)

// fakeEventCatalog mimics the repository scan: it filters the stored
// events by venue, calendar date and exclusion ID.
type fakeEventCatalog struct {
	events  []repository.Event
	listErr error
}

func (f *fakeEventCatalog) ListByVenueAndDate(ctx context.Context, venueID uint64, date string, excludeID uint64) ([]repository.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []repository.Event
	for _, e := range f.events {
		if e.VenueID == venueID && e.EventDate == date && e.ID != excludeID {
			out = append(out, e)
		}
	}
	return out, nil
}

func timed(id, venueID uint64, name, date, start, end string) repository.Event {
	return repository.Event{ID: id, VenueID: venueID, Name: name, EventDate: date, StartTime: &start, EndTime: &end}
}

func TestConflictChecker_CheckOverlap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rejects overlapping interval at same venue and date", func(t *testing.T) {
		checker := NewConflictChecker(&fakeEventCatalog{events: []repository.Event{
			timed(1, 1, "Morning Expo", "2024-06-01", "10:00:00", "12:00:00"),
		}})

		dec, err := checker.CheckOverlap(ctx, timed(0, 1, "Afternoon Expo", "2024-06-01", "11:00:00", "13:00:00"), 0)
		if err != nil {
			t.Fatalf("check overlap: %v", err)
		}
		if dec.OK {
			t.Fatalf("expected conflict, got admit")
		}
		if !strings.Contains(dec.Reason, "Morning Expo") {
			t.Fatalf("expected reason to name the conflicting event, got %q", dec.Reason)
		}
	})

	t.Run("overlap is symmetric", func(t *testing.T) {
		checker := NewConflictChecker(&fakeEventCatalog{events: []repository.Event{
			timed(1, 1, "Late", "2024-06-01", "11:00:00", "13:00:00"),
		}})

		dec, err := checker.CheckOverlap(ctx, timed(0, 1, "Early", "2024-06-01", "10:00:00", "12:00:00"), 0)
		if err != nil {
			t.Fatalf("check overlap: %v", err)
		}
		if dec.OK {
			t.Fatalf("expected conflict, got admit")
		}
	})

	t.Run("touching intervals do not conflict", func(t *testing.T) {
		checker := NewConflictChecker(&fakeEventCatalog{events: []repository.Event{
			timed(1, 1, "Morning Expo", "2024-06-01", "10:00:00", "12:00:00"),
		}})

		dec, err := checker.CheckOverlap(ctx, timed(0, 1, "Noon Expo", "2024-06-01", "12:00:00", "14:00:00"), 0)
		if err != nil {
			t.Fatalf("check overlap: %v", err)
		}
		if !dec.OK {
			t.Fatalf("expected admit for touching intervals, got %q", dec.Reason)
		}
	})

	t.Run("events without times never conflict", func(t *testing.T) {
		allDay := repository.Event{ID: 1, VenueID: 1, Name: "All Day", EventDate: "2024-06-01"}
		checker := NewConflictChecker(&fakeEventCatalog{events: []repository.Event{allDay}})

		dec, err := checker.CheckOverlap(ctx, timed(0, 1, "Timed", "2024-06-01", "00:00:00", "23:59:59"), 0)
		if err != nil {
			t.Fatalf("check overlap: %v", err)
		}
		if !dec.OK {
			t.Fatalf("expected admit against a time-less event, got %q", dec.Reason)
		}

		// The candidate missing a time is equally harmless.
		dec, err = checker.CheckOverlap(ctx, repository.Event{VenueID: 1, Name: "Open End", EventDate: "2024-06-01"}, 0)
		if err != nil {
			t.Fatalf("check overlap: %v", err)
		}
		if !dec.OK {
			t.Fatalf("expected admit for a time-less candidate, got %q", dec.Reason)
		}
	})

	t.Run("different dates never conflict", func(t *testing.T) {
		checker := NewConflictChecker(&fakeEventCatalog{events: []repository.Event{
			timed(1, 1, "Friday Late", "2024-05-31", "23:00:00", "23:59:59"),
		}})

		dec, err := checker.CheckOverlap(ctx, timed(0, 1, "Saturday Early", "2024-06-01", "23:00:00", "23:59:59"), 0)
		if err != nil {
			t.Fatalf("check overlap: %v", err)
		}
		if !dec.OK {
			t.Fatalf("expected admit across calendar dates, got %q", dec.Reason)
		}
	})

	t.Run("different venues never conflict", func(t *testing.T) {
		checker := NewConflictChecker(&fakeEventCatalog{events: []repository.Event{
			timed(1, 2, "Elsewhere", "2024-06-01", "10:00:00", "12:00:00"),
		}})

		dec, err := checker.CheckOverlap(ctx, timed(0, 1, "Here", "2024-06-01", "10:00:00", "12:00:00"), 0)
		if err != nil {
			t.Fatalf("check overlap: %v", err)
		}
		if !dec.OK {
			t.Fatalf("expected admit at a different venue, got %q", dec.Reason)
		}
	})

	t.Run("update excludes the event being edited", func(t *testing.T) {
		checker := NewConflictChecker(&fakeEventCatalog{events: []repository.Event{
			timed(7, 1, "Self", "2024-06-01", "10:00:00", "12:00:00"),
		}})

		// Shifting the event inside its own old slot must not conflict
		// with itself.
		dec, err := checker.CheckOverlap(ctx, timed(7, 1, "Self", "2024-06-01", "10:30:00", "11:30:00"), 7)
		if err != nil {
			t.Fatalf("check overlap: %v", err)
		}
		if !dec.OK {
			t.Fatalf("expected admit when excluding self, got %q", dec.Reason)
		}
	})

	t.Run("first conflict wins", func(t *testing.T) {
		checker := NewConflictChecker(&fakeEventCatalog{events: []repository.Event{
			timed(1, 1, "First", "2024-06-01", "10:00:00", "12:00:00"),
			timed(2, 1, "Second", "2024-06-01", "11:00:00", "13:00:00"),
		}})

		dec, err := checker.CheckOverlap(ctx, timed(0, 1, "Wide", "2024-06-01", "09:00:00", "14:00:00"), 0)
		if err != nil {
			t.Fatalf("check overlap: %v", err)
		}
		if dec.OK {
			t.Fatalf("expected conflict, got admit")
		}
		if !strings.Contains(dec.Reason, "First") {
			t.Fatalf("expected the first fetched conflict to win, got %q", dec.Reason)
		}
	})

	t.Run("store failure propagates as error", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		checker := NewConflictChecker(&fakeEventCatalog{listErr: storeErr})

		_, err := checker.CheckOverlap(ctx, timed(0, 1, "Any", "2024-06-01", "10:00:00", "12:00:00"), 0)
		if !errors.Is(err, storeErr) {
			t.Fatalf("expected store error, got %v", err)
		}
	})
}
