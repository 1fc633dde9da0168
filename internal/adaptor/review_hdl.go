package adaptor

import (
	"net/http"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// CreateReview handles POST /api/venues/{id}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	clientID, ok := currentUser(w, r)
	if !ok {
		return
	}
	venueID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.service.CreateReview(r.Context(), clientID, venueID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "Review created", review)
}

// GetVenueReviews handles GET /api/venues/{id}/reviews
func (h *ReviewHandler) GetVenueReviews(w http.ResponseWriter, r *http.Request) {
	venueID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	page := pageFromQuery(r)
	reviews, err := h.service.GetVenueReviews(r.Context(), venueID, &page)
	if err != nil {
		handleServiceError(w, h.log, err, "get venue reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// UpdateReview handles PUT /api/reviews/{id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	clientID, ok := currentUser(w, r)
	if !ok {
		return
	}
	reviewID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.service.UpdateReview(r.Context(), clientID, reviewID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "Review updated", review)
}

// DeleteReview handles DELETE /api/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	clientID, ok := currentUser(w, r)
	if !ok {
		return
	}
	reviewID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteReview(r.Context(), clientID, reviewID); err != nil {
		handleServiceError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "Review deleted", nil)
}
