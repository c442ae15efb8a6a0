// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when a booking is successfully created.
// It carries enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type BookingCreatedEvent struct {
	BookingID     uint64 `json:"booking_id"`
	EventID       uint64 `json:"event_id"`
	EventName     string `json:"event_name"`
	EventDate     string `json:"event_date"`
	VenueID       uint64 `json:"venue_id"`
	VenueName     string `json:"venue_name"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	Tickets       uint32 `json:"tickets"`
	BookedAt      string `json:"booked_at"`
}
