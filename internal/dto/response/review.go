package response

import (
	"time"

	"venue-booking/internal/data/entity"
)

type ReviewResponse struct {
	ID         string    `json:"id"`
	VenueID    string    `json:"venue_id"`
	ClientID   string    `json:"client_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ReviewToResponse(review *entity.Review, authorName string) ReviewResponse {
	return ReviewResponse{
		ID:         review.ID.String(),
		VenueID:    review.VenueID.String(),
		ClientID:   review.ClientID.String(),
		AuthorName: authorName,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
		UpdatedAt:  review.UpdatedAt,
	}
}
