package router // router defines how HTTP routes are registered for the API

import (
	"github.com/eventsystem/event-booking/internal/handler"    // admin handlers
	"github.com/eventsystem/event-booking/internal/middleware" // JWT + role middlewares
	"github.com/labstack/echo/v4"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1.
// All routes require a valid JWT and ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Venues ----
	g.POST("/venues", a.CreateVenue)
	// NOTE: Listing venues is handled by the public browse API, so no
	// admin-scoped list endpoint is registered here.
	g.PUT("/venues/:id", a.UpdateVenue)
	g.PATCH("/venues/:id", a.UpdateVenue) // allow partial updates via PATCH as well
	g.DELETE("/venues/:id", a.DeleteVenue)

	// ---- Events ----
	g.POST("/events", a.CreateEvent)
	g.PUT("/events/:id", a.UpdateEvent)
	g.PATCH("/events/:id", a.UpdateEvent)
	// NOTE: Listing events is provided by the public API (GET /v1/events and
	// GET /v1/venues/:id/events).
	g.DELETE("/events/:id", a.DeleteEvent)
}
