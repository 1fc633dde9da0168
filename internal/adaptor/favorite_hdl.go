package adaptor

import (
	"net/http"

	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type FavoriteHandler struct {
	service usecase.FavoriteService
	log     *zap.Logger
}

func NewFavoriteHandler(service usecase.FavoriteService, log *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		service: service,
		log:     log.With(zap.String("handler", "favorite")),
	}
}

// List handles GET /api/favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	page := pageFromQuery(r)
	venues, err := h.service.List(r.Context(), userID, &page)
	if err != nil {
		handleServiceError(w, h.log, err, "list favorites")
		return
	}

	utils.ResponseSuccess(w, "success", venues)
}

// Add handles POST /api/favorites/{venueID}
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	venueID, ok := pathUUID(w, r, "venueID")
	if !ok {
		return
	}

	if err := h.service.Add(r.Context(), userID, venueID); err != nil {
		handleServiceError(w, h.log, err, "add favorite")
		return
	}

	utils.ResponseSuccess(w, "Added to favorites", nil)
}

// Remove handles DELETE /api/favorites/{venueID}
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	venueID, ok := pathUUID(w, r, "venueID")
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), userID, venueID); err != nil {
		handleServiceError(w, h.log, err, "remove favorite")
		return
	}

	utils.ResponseSuccess(w, "Removed from favorites", nil)
}
