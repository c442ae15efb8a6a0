// This file implements the booking endpoints.  Creation runs through the
// admission engine; the unique index on bookings.event_id backs the same
// rule at the store level, and a duplicate-key loss is reported exactly
// like an admission rejection.
package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventsystem/event-booking/internal/queue"
	"github.com/eventsystem/event-booking/internal/repository"
	"github.com/eventsystem/event-booking/internal/rules"
)

// BookingHandler bundles the booking endpoints' dependencies.  Publish
// sends the booking.created message; it is best effort and its error is
// only logged.
type BookingHandler struct {
	BookingRepo *repository.BookingRepo
	Admitter    *rules.BookingAdmitter
	Publish     func(ctx context.Context, ev queue.BookingCreatedEvent) error
}

// NewBookingHandler constructs a BookingHandler and panics if a required
// dependency is nil.  Publish may be nil to disable messaging.
func NewBookingHandler(bookings *repository.BookingRepo, admitter *rules.BookingAdmitter, publish func(ctx context.Context, ev queue.BookingCreatedEvent) error) *BookingHandler {
	if bookings == nil || admitter == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{BookingRepo: bookings, Admitter: admitter, Publish: publish}
}

// bookingBody is the JSON request shape for booking create and update.
type bookingBody struct {
	EventID       uint64 `json:"event_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	Tickets       uint32 `json:"tickets"`
}

// validateCustomer checks the customer-facing fields shared by create
// and update.  It returns a non-nil response when validation failed.
func validateCustomer(c echo.Context, body *bookingBody) error {
	body.CustomerName = strings.TrimSpace(body.CustomerName)
	if body.CustomerName == "" {
		return fieldError(c, "customer_name", "customer_name is required")
	}
	if len(body.CustomerName) > maxNameLen {
		return fieldError(c, "customer_name", "customer_name is too long")
	}
	body.CustomerEmail = strings.TrimSpace(body.CustomerEmail)
	if body.CustomerEmail == "" {
		return fieldError(c, "customer_email", "customer_email is required")
	}
	if len(body.CustomerEmail) > maxEmailLen || !validEmail(body.CustomerEmail) {
		return fieldError(c, "customer_email", "customer_email must be a valid email address")
	}
	if body.Tickets == 0 {
		return fieldError(c, "tickets", "tickets must be at least 1")
	}
	return nil
}

// CreateBooking handles POST /v1/bookings.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var body bookingBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.EventID == 0 {
		return fieldError(c, "event_id", "event_id is required")
	}
	if resp := validateCustomer(c, &body); resp != nil {
		return resp
	}

	booking := repository.Booking{
		EventID:       body.EventID,
		CustomerName:  body.CustomerName,
		CustomerEmail: body.CustomerEmail,
		Tickets:       body.Tickets,
	}

	dec, err := h.Admitter.Admit(c.Request().Context(), booking)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check booking"})
	}
	if !dec.OK {
		return rejected(c, dec)
	}

	if err := h.BookingRepo.Create(c.Request().Context(), &booking); err != nil {
		if errors.Is(err, repository.ErrEventAlreadyBooked) {
			// Lost the insert race; same rejection as the pre-check.
			return rejected(c, rules.RejectedField("event_id", rules.ReasonEventAlreadyBooked))
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
	}

	detail, err := h.BookingRepo.GetDetailByID(c.Request().Context(), booking.ID)
	if err != nil {
		// The booking exists; return what we have rather than failing.
		return c.JSON(http.StatusCreated, booking)
	}
	if h.Publish != nil {
		ev := queue.BookingCreatedEvent{
			BookingID:     detail.ID,
			EventID:       detail.EventID,
			EventName:     detail.EventName,
			EventDate:     detail.EventDate,
			VenueID:       detail.VenueID,
			VenueName:     detail.VenueName,
			CustomerName:  detail.CustomerName,
			CustomerEmail: detail.CustomerEmail,
			Tickets:       detail.Tickets,
			BookedAt:      detail.BookingDate.UTC().Format(time.RFC3339),
		}
		if err := h.Publish(c.Request().Context(), ev); err != nil {
			log.Printf("booking %d created but publish failed: %v", detail.ID, err)
		}
	}
	return c.JSON(http.StatusCreated, detail)
}

// ListBookings handles GET /v1/bookings.  The optional ?search= term
// matches customer, event or venue names.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("search"))
	items, err := h.BookingRepo.Search(c.Request().Context(), term)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	if items == nil {
		items = []repository.BookingDetail{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:id.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detail, err := h.BookingRepo.GetDetailByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	return c.JSON(http.StatusOK, detail)
}

// UpdateBooking handles PUT /v1/bookings/:id.  Only the customer fields
// are editable; the event reference is fixed at admission time.
func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.BookingRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	var body bookingBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.EventID != 0 && body.EventID != cur.EventID {
		return fieldError(c, "event_id", "event_id cannot be changed")
	}
	if resp := validateCustomer(c, &body); resp != nil {
		return resp
	}
	cur.CustomerName = body.CustomerName
	cur.CustomerEmail = body.CustomerEmail
	cur.Tickets = body.Tickets
	if err := h.BookingRepo.UpdateCustomer(c.Request().Context(), cur); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	detail, err := h.BookingRepo.GetDetailByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	return c.JSON(http.StatusOK, detail)
}

// DeleteBooking handles DELETE /v1/bookings/:id.  Bookings have no
// dependents, so deletion is unconditional.
func (h *BookingHandler) DeleteBooking(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.BookingRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
