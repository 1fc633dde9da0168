package wire

import (
	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/entity"

	"github.com/go-chi/chi/v5"
)

func wireProvider(r chi.Router, providerHandler *adaptor.ProviderHandler, g *guards) {
	// ==================== PROVIDER ROUTES ====================
	r.Route("/api/provider", func(r chi.Router) {
		r.Use(g.auth)
		r.Use(g.role(entity.RoleProvider))

		r.Get("/dashboard", providerHandler.Dashboard)

		r.Route("/venues", func(r chi.Router) {
			r.Post("/", providerHandler.CreateVenue)
			r.Get("/", providerHandler.ListVenues)
			r.Put("/{id}", providerHandler.UpdateVenue)
			r.Delete("/{id}", providerHandler.DeleteVenue)
			r.Put("/{id}/availability", providerHandler.SetAvailability)
			r.Delete("/{id}/availability/{date}", providerHandler.ClearAvailability)
		})

		r.Get("/bookings", providerHandler.ListBookings)
		r.Patch("/bookings/{id}/status", providerHandler.UpdateBookingStatus)
	})
}
