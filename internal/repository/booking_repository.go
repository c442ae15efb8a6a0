// This file defines the Booking model and repository methods for bookings.
// A Booking ties one customer to one event; the unique index on event_id
// makes "at most one booking per event" a property of the store itself,
// not just of the admission pre-check.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Booking mirrors the bookings table.  BookingDate is assigned by the
// database at insert time.
type Booking struct {
	ID            uint64    `json:"id"`
	EventID       uint64    `json:"event_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Tickets       uint32    `json:"tickets"`
	BookingDate   time.Time `json:"booking_date"`
}

// BookingDetail joins a booking with the event and venue it refers to.
// It is the shape returned by list and detail endpoints so clients do not
// need follow-up lookups, and it feeds the booking.created message.
type BookingDetail struct {
	Booking
	EventName string `json:"event_name"`
	EventDate string `json:"event_date"`
	VenueID   uint64 `json:"venue_id"`
	VenueName string `json:"venue_name"`
}

// BookingRepo manages persistence for bookings.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

const bookingColumns = `id, event_id, customer_name, customer_email, tickets, booking_date`

func scanBooking(row interface{ Scan(...any) error }, b *Booking) error {
	return row.Scan(&b.ID, &b.EventID, &b.CustomerName, &b.CustomerEmail, &b.Tickets, &b.BookingDate)
}

// Create inserts a new booking.  booking_date is left to the DB default
// (CURRENT_TIMESTAMP) and read back together with the generated ID.  When
// the insert loses a race against another booking for the same event, the
// duplicate-key error on uq_bookings_event comes back as
// ErrEventAlreadyBooked so callers report it exactly like an admission
// rejection.
func (r *BookingRepo) Create(ctx context.Context, b *Booking) error {
	const q = `INSERT INTO bookings (event_id, customer_name, customer_email, tickets) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.EventID, b.CustomerName, b.CustomerEmail, b.Tickets)
	if err != nil {
		if isDuplicate(err) {
			return ErrEventAlreadyBooked
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return scanBooking(r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, b.ID), b)
}

// GetByID retrieves a booking by its ID.  It returns ErrBookingNotFound
// if there is no matching row.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*Booking, error) {
	var b Booking
	err := scanBooking(r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id), &b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

const bookingDetailQuery = `SELECT b.id, b.event_id, b.customer_name, b.customer_email, b.tickets, b.booking_date,
		e.name, DATE_FORMAT(e.event_date, '%Y-%m-%d'), v.id, v.name
	FROM bookings b
	JOIN events e ON e.id = b.event_id
	JOIN venues v ON v.id = e.venue_id`

func scanBookingDetail(row interface{ Scan(...any) error }, d *BookingDetail) error {
	return row.Scan(&d.ID, &d.EventID, &d.CustomerName, &d.CustomerEmail, &d.Tickets, &d.BookingDate,
		&d.EventName, &d.EventDate, &d.VenueID, &d.VenueName)
}

// GetDetailByID returns a booking joined with its event and venue names.
func (r *BookingRepo) GetDetailByID(ctx context.Context, id uint64) (*BookingDetail, error) {
	var d BookingDetail
	err := scanBookingDetail(r.db.QueryRowContext(ctx, bookingDetailQuery+` WHERE b.id = ?`, id), &d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Search lists bookings joined with event and venue information.  A
// non-empty search term filters on customer name, event name or venue
// name with a substring match.  Results are ordered newest first.
func (r *BookingRepo) Search(ctx context.Context, term string) ([]BookingDetail, error) {
	q := bookingDetailQuery
	args := []any{}
	if term != "" {
		q += ` WHERE b.customer_name LIKE ? OR e.name LIKE ? OR v.name LIKE ?`
		pat := "%" + term + "%"
		args = append(args, pat, pat, pat)
	}
	q += ` ORDER BY b.booking_date DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []BookingDetail
	for rows.Next() {
		var d BookingDetail
		if err := scanBookingDetail(rows, &d); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ExistsForEvent reports whether any booking references the given event.
// Both the admission engine and the event deletion guard consult it.
func (r *BookingRepo) ExistsForEvent(ctx context.Context, eventID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE event_id = ? LIMIT 1`, eventID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateCustomer rewrites the customer-facing fields of a booking.  The
// event reference is deliberately not updatable; changing it would bypass
// admission.  A missing row surfaces as ErrBookingNotFound.
func (r *BookingRepo) UpdateCustomer(ctx context.Context, b *Booking) error {
	const q = `UPDATE bookings SET customer_name = ?, customer_email = ?, tickets = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, b.CustomerName, b.CustomerEmail, b.Tickets, b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE id = ? LIMIT 1`, b.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}
	return nil
}

// Delete removes a booking unconditionally; bookings have no dependents.
// Returns ErrBookingNotFound when no row was deleted.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}
