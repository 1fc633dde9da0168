package wire

import (
	"venue-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireFavorite(r chi.Router, favoriteHandler *adaptor.FavoriteHandler, g *guards) {
	r.Route("/api/favorites", func(r chi.Router) {
		r.Use(g.auth)

		r.Get("/", favoriteHandler.List)
		r.Post("/{venueID}", favoriteHandler.Add)
		r.Delete("/{venueID}", favoriteHandler.Remove)
	})
}
