package wire

import (
	"venue-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireVenue(r chi.Router, venueHandler *adaptor.VenueHandler, g *guards) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/extras", venueHandler.Extras)
	r.Get("/api/venues", venueHandler.Search)
	r.Get("/api/venues/{id}", venueHandler.GetByID)
	r.Get("/api/venues/{id}/availability", venueHandler.Availability)
	r.Post("/api/venues/{id}/quote", venueHandler.Quote)
}
