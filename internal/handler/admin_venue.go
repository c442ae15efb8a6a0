// This file implements the ADMIN endpoints for venues.  Venue create and
// edit accept multipart forms because they may carry an image file, which
// is pushed to the blob store and referenced by URL only.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eventsystem/event-booking/internal/blob"
	"github.com/eventsystem/event-booking/internal/repository"
	"github.com/eventsystem/event-booking/internal/rules"
)

// AdminHandler bundles the dependencies of the venue and event admin
// endpoints: the repositories, the scheduling and deletion rules, and
// the blob store for venue images.
type AdminHandler struct {
	VenueRepo *repository.VenueRepo
	EventRepo *repository.EventRepo
	Conflicts *rules.ConflictChecker
	Guard     *rules.DeletionGuard
	Blob      blob.Store
}

// NewAdminHandler constructs an AdminHandler and panics if any dependency
// is nil.
func NewAdminHandler(venues *repository.VenueRepo, events *repository.EventRepo, conflicts *rules.ConflictChecker, guard *rules.DeletionGuard, blobStore blob.Store) *AdminHandler {
	if venues == nil || events == nil || conflicts == nil || guard == nil || blobStore == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{
		VenueRepo: venues,
		EventRepo: events,
		Conflicts: conflicts,
		Guard:     guard,
		Blob:      blobStore,
	}
}

// venueForm reads the multipart venue fields shared by create and edit.
// It returns a field-level validation error response, or nil when the
// form is valid and the out parameters are populated.
func (h *AdminHandler) venueForm(c echo.Context, v *repository.Venue) error {
	v.Name = strings.TrimSpace(c.FormValue("name"))
	if v.Name == "" {
		return fieldError(c, "name", "name is required")
	}
	if len(v.Name) > maxNameLen {
		return fieldError(c, "name", "name is too long")
	}
	if loc := strings.TrimSpace(c.FormValue("location")); loc != "" {
		if len(loc) > maxLocationLen {
			return fieldError(c, "location", "location is too long")
		}
		v.Location = &loc
	} else {
		v.Location = nil
	}
	if capStr := strings.TrimSpace(c.FormValue("capacity")); capStr != "" {
		n, err := strconv.ParseUint(capStr, 10, 32)
		if err != nil {
			return fieldError(c, "capacity", "capacity must be a non-negative integer")
		}
		v.Capacity = uint32(n)
	} else {
		v.Capacity = 0
	}
	if desc := strings.TrimSpace(c.FormValue("description")); desc != "" {
		if len(desc) > maxDescriptionLen {
			return fieldError(c, "description", "description is too long")
		}
		v.Description = &desc
	} else {
		v.Description = nil
	}
	return nil
}

// uploadImage pushes an attached "image" file to the blob store and sets
// the venue's image URL.  A request without a file leaves the URL alone.
func (h *AdminHandler) uploadImage(c echo.Context, v *repository.Venue) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil // no file attached
	}
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	url, err := h.Blob.Upload(c.Request().Context(), fh.Filename, src)
	if err != nil {
		return err
	}
	v.ImageURL = &url
	return nil
}

// CreateVenue handles POST /v1/venues.
func (h *AdminHandler) CreateVenue(c echo.Context) error {
	var v repository.Venue
	if resp := h.venueForm(c, &v); resp != nil {
		return resp
	}
	if err := h.uploadImage(c, &v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "image upload failed"})
	}
	if err := h.VenueRepo.Create(c.Request().Context(), &v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create venue"})
	}
	return c.JSON(http.StatusCreated, v)
}

// UpdateVenue handles PUT /v1/venues/:id.  Omitting the image file keeps
// the stored image; attaching one replaces it.
func (h *AdminHandler) UpdateVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.VenueRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load venue"})
	}
	upd := repository.Venue{ID: cur.ID, ImageURL: cur.ImageURL}
	if resp := h.venueForm(c, &upd); resp != nil {
		return resp
	}
	if err := h.uploadImage(c, &upd); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "image upload failed"})
	}
	if err := h.VenueRepo.Update(c.Request().Context(), &upd); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	fresh, err := h.VenueRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load venue"})
	}
	return c.JSON(http.StatusOK, fresh)
}

// DeleteVenue handles DELETE /v1/venues/:id.  The deletion guard decides
// first so the client gets the human-readable reason; the repository
// repeats the dependency check inside the delete transaction, which
// closes the window against a concurrently created event.
func (h *AdminHandler) DeleteVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	dec, err := h.Guard.CanDeleteVenue(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check venue dependencies"})
	}
	if !dec.OK {
		return rejected(c, dec)
	}
	if err := h.VenueRepo.DeleteGuarded(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrVenueNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		case errors.Is(err, repository.ErrConflict):
			// An event appeared between the guard check and the delete.
			return rejected(c, rules.Rejected(rules.ReasonVenueHasEvents))
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
