package adaptor

import (
	"net/http"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type VenueHandler struct {
	service usecase.VenueService
	log     *zap.Logger
}

func NewVenueHandler(service usecase.VenueService, log *zap.Logger) *VenueHandler {
	return &VenueHandler{
		service: service,
		log:     log.With(zap.String("handler", "venue")),
	}
}

// Search handles GET /api/venues
func (h *VenueHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.VenueSearchQuery{
		PaginatedRequest: pageFromQuery(r),
		Category:         utils.ParseStringPtr(query.Get("category")),
		Zone:             utils.ParseStringPtr(query.Get("zone")),
		Search:           utils.ParseStringPtr(query.Get("q")),
		MinPrice:         utils.ParseFloatPtr(query.Get("min_price")),
		MaxPrice:         utils.ParseFloatPtr(query.Get("max_price")),
		Guests:           intPtr(query.Get("guests")),
		Sort:             query.Get("sort"),
	}

	venues, err := h.service.Search(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "search venues")
		return
	}

	utils.ResponseSuccess(w, "success", venues)
}

// GetByID handles GET /api/venues/{id}
func (h *VenueHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	venueID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	venue, err := h.service.GetByID(r.Context(), venueID)
	if err != nil {
		handleServiceError(w, h.log, err, "get venue")
		return
	}

	utils.ResponseSuccess(w, "Venue retrieved", venue)
}

// Availability handles GET /api/venues/{id}/availability?month=&year=
// Month and year default to the current month.
func (h *VenueHandler) Availability(w http.ResponseWriter, r *http.Request) {
	venueID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	now := usecase.SystemClock{}.Now()
	query := r.URL.Query()
	month := utils.ParseInt(query.Get("month"), int(now.Month()))
	year := utils.ParseInt(query.Get("year"), now.Year())

	availability, err := h.service.GetAvailability(r.Context(), venueID, month, year)
	if err != nil {
		handleServiceError(w, h.log, err, "get availability")
		return
	}

	utils.ResponseSuccess(w, "Availability retrieved", availability)
}

// Quote handles POST /api/venues/{id}/quote
func (h *VenueHandler) Quote(w http.ResponseWriter, r *http.Request) {
	venueID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.QuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	quote, err := h.service.Quote(r.Context(), venueID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "quote venue")
		return
	}

	utils.ResponseSuccess(w, "Quote calculated", quote)
}

// Extras handles GET /api/extras
func (h *VenueHandler) Extras(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", h.service.Extras())
}
