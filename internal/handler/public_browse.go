// This file implements the unauthenticated browse endpoints.  They only
// read, so the router wraps them in the Redis response cache.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventsystem/event-booking/internal/repository"
)

// PublicHandler serves the read-only venue and event endpoints.
type PublicHandler struct {
	VenueRepo *repository.VenueRepo
	EventRepo *repository.EventRepo
}

// NewPublicHandler constructs a PublicHandler and panics if a repository
// is nil.
func NewPublicHandler(venues *repository.VenueRepo, events *repository.EventRepo) *PublicHandler {
	if venues == nil || events == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{VenueRepo: venues, EventRepo: events}
}

// ListVenues handles GET /v1/venues.
func (h *PublicHandler) ListVenues(c echo.Context) error {
	venues, err := h.VenueRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load venues"})
	}
	if venues == nil {
		venues = []repository.Venue{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": venues})
}

// GetVenue handles GET /v1/venues/:id.
func (h *PublicHandler) GetVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	v, err := h.VenueRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load venue"})
	}
	return c.JSON(http.StatusOK, v)
}

// ListVenueEvents handles GET /v1/venues/:id/events.
func (h *PublicHandler) ListVenueEvents(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.VenueRepo.GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load venue"})
	}
	events, err := h.EventRepo.ListByVenue(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load events"})
	}
	if events == nil {
		events = []repository.Event{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": events})
}

// ListEvents handles GET /v1/events.
func (h *PublicHandler) ListEvents(c echo.Context) error {
	events, err := h.EventRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load events"})
	}
	if events == nil {
		events = []repository.Event{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": events})
}

// GetEvent handles GET /v1/events/:id.
func (h *PublicHandler) GetEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	e, err := h.EventRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load event"})
	}
	return c.JSON(http.StatusOK, e)
}
