// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.  For
// example, ErrConflict signals that a delete cannot proceed because of
// existing dependent records, while ErrEventAlreadyBooked surfaces the
// unique index on bookings.event_id when two requests race.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrConflict is returned when a delete cannot be performed because of
// conflicting state, such as removing a venue that still has events or
// an event that still has bookings.  Handlers should translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrVenueNotFound indicates that a venue was not located in the DB.
var ErrVenueNotFound = errors.New("venue not found")

// ErrEventNotFound indicates that an event was not located in the DB.
var ErrEventNotFound = errors.New("event not found")

// ErrBookingNotFound indicates that a booking was not located in the DB.
var ErrBookingNotFound = errors.New("booking not found")

// ErrUserNotFound indicates that a user was not located in the DB.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned when registration hits the unique index on
// users.email.
var ErrEmailTaken = errors.New("email already registered")

// ErrEventAlreadyBooked is returned when an insert hits the unique index
// on bookings.event_id.
var ErrEventAlreadyBooked = errors.New("event already booked")

// ErrTokenNotFound indicates that a refresh token is unknown, expired
// or revoked.
var ErrTokenNotFound = errors.New("refresh token not found")

// isDuplicate reports whether err is the MySQL duplicate-key error (1062).
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
