package router

import (
	"github.com/labstack/echo/v4"

	"github.com/eventsystem/event-booking/internal/handler"
)

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  These are read-only listings of venues and events for
// guest users; no JWT or role middleware applies.  The optional extra
// middleware (typically the Redis response cache) wraps every route in the
// group.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	// All venues
	g.GET("/venues", p.ListVenues)
	// A single venue by id
	g.GET("/venues/:id", p.GetVenue)
	// Events scheduled at a specific venue
	g.GET("/venues/:id/events", p.ListVenueEvents)
	// All events
	g.GET("/events", p.ListEvents)
	// A single event by id
	g.GET("/events/:id", p.GetEvent)
}
