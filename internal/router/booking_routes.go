package router

import (
	"github.com/eventsystem/event-booking/internal/handler"
	"github.com/eventsystem/event-booking/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterBookings registers the booking endpoints under /v1.  All routes
// require a valid JWT; both CUSTOMER and ADMIN roles may manage bookings.
// Customers create and manage bookings for themselves, while admins use
// the same endpoints at the front desk.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)
	g.POST("/bookings", b.CreateBooking)
	g.GET("/bookings", b.ListBookings) // supports ?search= over customer, event and venue names
	g.GET("/bookings/:id", b.GetBooking)
	g.PUT("/bookings/:id", b.UpdateBooking)
	g.PATCH("/bookings/:id", b.UpdateBooking)
	g.DELETE("/bookings/:id", b.DeleteBooking)
}
