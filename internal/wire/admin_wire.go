package wire

import (
	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/entity"

	"github.com/go-chi/chi/v5"
)

func wireAdmin(r chi.Router, adminHandler *adaptor.AdminHandler, g *guards) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(g.auth)
		r.Use(g.role(entity.RoleAdmin))

		r.Patch("/venues/{id}/status", adminHandler.UpdateVenueStatus)
	})
}
