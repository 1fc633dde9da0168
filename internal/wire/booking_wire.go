package wire

import (
	"venue-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, g *guards) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(g.auth)

		r.Post("/", bookingHandler.CreateBooking)
		r.With(g.limit).Post("/checkout", bookingHandler.Checkout)
		r.Get("/", bookingHandler.ListBookings)

		// Only participants see a booking; only its client withdraws it.
		r.Get("/{id}", bookingHandler.GetBookingByID)
		r.Delete("/{id}", bookingHandler.DeleteBooking)
	})
}
