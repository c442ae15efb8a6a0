// This file implements the ADMIN endpoints for events.  Event writes are
// the one place with real scheduling logic: after field validation the
// conflict checker decides whether the candidate's interval collides with
// an existing event at the same venue on the same date.
package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventsystem/event-booking/internal/repository"
	"github.com/eventsystem/event-booking/internal/rules"
)

// eventBody is the JSON request shape for event create and update.
// start_time and end_time accept "HH:MM" or "HH:MM:SS" and are optional;
// an event without both is a date-only entry that never conflicts.
type eventBody struct {
	VenueID     uint64  `json:"venue_id"`
	Name        string  `json:"name"`
	EventDate   string  `json:"event_date"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Description *string `json:"description"`
}

// bindEvent validates an eventBody into a repository.Event.  It returns
// a non-nil response when validation failed.
func (h *AdminHandler) bindEvent(c echo.Context, e *repository.Event) error {
	var body eventBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.VenueID == 0 {
		return fieldError(c, "venue_id", "venue_id is required")
	}
	e.VenueID = body.VenueID
	e.Name = strings.TrimSpace(body.Name)
	if e.Name == "" {
		return fieldError(c, "name", "name is required")
	}
	if len(e.Name) > maxNameLen {
		return fieldError(c, "name", "name is too long")
	}
	date := strings.TrimSpace(body.EventDate)
	if date == "" {
		return fieldError(c, "event_date", "event_date is required")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fieldError(c, "event_date", "event_date must be YYYY-MM-DD")
	}
	e.EventDate = date
	e.StartTime = nil
	e.EndTime = nil
	if body.StartTime != nil && strings.TrimSpace(*body.StartTime) != "" {
		t, ok := normalizeTime(strings.TrimSpace(*body.StartTime))
		if !ok {
			return fieldError(c, "start_time", "start_time must be HH:MM or HH:MM:SS")
		}
		e.StartTime = &t
	}
	if body.EndTime != nil && strings.TrimSpace(*body.EndTime) != "" {
		t, ok := normalizeTime(strings.TrimSpace(*body.EndTime))
		if !ok {
			return fieldError(c, "end_time", "end_time must be HH:MM or HH:MM:SS")
		}
		e.EndTime = &t
	}
	if e.StartTime != nil && e.EndTime != nil && *e.EndTime <= *e.StartTime {
		return fieldError(c, "end_time", "end_time must be after start_time")
	}
	e.Description = nil
	if body.Description != nil && strings.TrimSpace(*body.Description) != "" {
		desc := strings.TrimSpace(*body.Description)
		if len(desc) > maxDescriptionLen {
			return fieldError(c, "description", "description is too long")
		}
		e.Description = &desc
	}
	// The venue reference must resolve before any scheduling decision.
	if _, err := h.VenueRepo.GetByID(c.Request().Context(), e.VenueID); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return fieldError(c, "venue_id", "venue not found")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify venue"})
	}
	return nil
}

// CreateEvent handles POST /v1/events.
func (h *AdminHandler) CreateEvent(c echo.Context) error {
	var e repository.Event
	if resp := h.bindEvent(c, &e); resp != nil {
		return resp
	}
	dec, err := h.Conflicts.CheckOverlap(c.Request().Context(), e, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check existing events"})
	}
	if !dec.OK {
		return rejected(c, dec)
	}
	if err := h.EventRepo.Create(c.Request().Context(), &e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create event"})
	}
	return c.JSON(http.StatusCreated, e)
}

// UpdateEvent handles PUT /v1/events/:id.  The conflict check excludes
// the event being edited so it may keep or shrink its own slot.
func (h *AdminHandler) UpdateEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.EventRepo.GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load event"})
	}
	var e repository.Event
	if resp := h.bindEvent(c, &e); resp != nil {
		return resp
	}
	e.ID = id
	dec, err := h.Conflicts.CheckOverlap(c.Request().Context(), e, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check existing events"})
	}
	if !dec.OK {
		return rejected(c, dec)
	}
	if err := h.EventRepo.Update(c.Request().Context(), &e); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			// Deleted between the load above and the write.
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	fresh, err := h.EventRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load event"})
	}
	return c.JSON(http.StatusOK, fresh)
}

// DeleteEvent handles DELETE /v1/events/:id.  Mirrors DeleteVenue: the
// guard provides the reason, the repository makes the check atomic with
// the delete.
func (h *AdminHandler) DeleteEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	dec, err := h.Guard.CanDeleteEvent(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check event dependencies"})
	}
	if !dec.OK {
		return rejected(c, dec)
	}
	if err := h.EventRepo.DeleteGuarded(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, repository.ErrConflict):
			return rejected(c, rules.Rejected(rules.ReasonEventHasBookings))
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
