package adaptor

import (
	"net/http"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type AdminHandler struct {
	venues usecase.VenueService
	log    *zap.Logger
}

func NewAdminHandler(venues usecase.VenueService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		venues: venues,
		log:    log.With(zap.String("handler", "admin")),
	}
}

// UpdateVenueStatus handles PATCH /api/admin/venues/{id}/status
func (h *AdminHandler) UpdateVenueStatus(w http.ResponseWriter, r *http.Request) {
	venueID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateVenueStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.venues.UpdateStatus(r.Context(), venueID, &req); err != nil {
		handleServiceError(w, h.log, err, "update venue status")
		return
	}

	utils.ResponseSuccess(w, "Venue status updated", nil)
}
