// This file defines the Event model and repository methods for events.
// An Event is scheduled at a venue on a calendar date with an optional
// wall-clock interval.  Scheduling rules (time overlap at the same venue
// and date) are decided by the rules package; the repository only fetches
// the candidate rows that the rules need.
//
// NOTE: event_date is carried as "2006-01-02" and start/end times as
// "15:04:05" strings, the formats MySQL DATE and TIME columns use.  The
// zero-padded time strings order correctly under plain string comparison.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Event mirrors the events table.  StartTime and EndTime are nil when the
// event has no scheduled interval; such events never participate in
// overlap decisions.
type Event struct {
	ID          uint64    `json:"id"`
	VenueID     uint64    `json:"venue_id"`
	Name        string    `json:"name"`
	EventDate   string    `json:"event_date"`
	StartTime   *string   `json:"start_time"`
	EndTime     *string   `json:"end_time"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventRepo manages persistence for events.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// eventColumns formats DATE and TIME columns as strings at the SQL layer
// so scanning stays uniform regardless of the driver's parseTime setting.
const eventColumns = `id, venue_id, name, DATE_FORMAT(event_date, '%Y-%m-%d'),
	TIME_FORMAT(start_time, '%H:%i:%s'), TIME_FORMAT(end_time, '%H:%i:%s'),
	description, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }, e *Event) error {
	return row.Scan(&e.ID, &e.VenueID, &e.Name, &e.EventDate, &e.StartTime, &e.EndTime, &e.Description, &e.CreatedAt, &e.UpdatedAt)
}

// Create inserts a new event and reads the row back to populate the
// generated ID and timestamp defaults.
func (r *EventRepo) Create(ctx context.Context, e *Event) error {
	const q = `INSERT INTO events (venue_id, name, event_date, start_time, end_time, description) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, e.VenueID, e.Name, e.EventDate, e.StartTime, e.EndTime, e.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, e.ID), e)
}

// GetByID retrieves an event by its ID.  It returns ErrEventNotFound if
// there is no matching row.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*Event, error) {
	var e Event
	err := scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id), &e)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

// List returns all events ordered by date then start time.
func (r *EventRepo) List(ctx context.Context) ([]Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events ORDER BY event_date ASC, start_time ASC`
	return r.queryEvents(ctx, q)
}

// ListByVenue returns all events scheduled at the given venue ordered by
// date then start time.
func (r *EventRepo) ListByVenue(ctx context.Context, venueID uint64) ([]Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE venue_id = ? ORDER BY event_date ASC, start_time ASC`
	return r.queryEvents(ctx, q, venueID)
}

// ListByVenueAndDate returns the events at a venue on a single calendar
// date, excluding the row with excludeID.  Pass excludeID 0 on the create
// path where nothing must be excluded.  This is the candidate set the
// overlap rule evaluates.
func (r *EventRepo) ListByVenueAndDate(ctx context.Context, venueID uint64, date string, excludeID uint64) ([]Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE venue_id = ? AND event_date = ? AND id <> ?`
	return r.queryEvents(ctx, q, venueID, date, excludeID)
}

func (r *EventRepo) queryEvents(ctx context.Context, q string, args ...any) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Event
	for rows.Next() {
		var e Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Exists reports whether an event row with the given ID is present.
func (r *EventRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ? LIMIT 1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AnyAtVenue reports whether any event references the given venue.  The
// deletion guard consults it before a venue is removed.
func (r *EventRepo) AnyAtVenue(ctx context.Context, venueID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM events WHERE venue_id = ? LIMIT 1`, venueID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Update rewrites an event's attributes.  Like VenueRepo.Update it tells
// a missing row apart from an identical-values update by re-checking
// existence when nothing was affected.
func (r *EventRepo) Update(ctx context.Context, e *Event) error {
	const q = `UPDATE events SET venue_id = ?, name = ?, event_date = ?, start_time = ?, end_time = ?, description = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, e.VenueID, e.Name, e.EventDate, e.StartTime, e.EndTime, e.Description, e.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ? LIMIT 1`, e.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		return err
	}
	return nil
}

// DeleteGuarded removes an event only if no booking references it.  The
// check and the DELETE run inside one transaction.  Returns
// ErrEventNotFound when the event does not exist and ErrConflict when an
// existing booking blocks the deletion.
func (r *EventRepo) DeleteGuarded(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ? LIMIT 1`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrEventNotFound
		}
		return err
	}
	var dependents int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE event_id = ?`, id).Scan(&dependents); err != nil {
		return err
	}
	if dependents > 0 {
		err = ErrConflict
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	return err
}
