package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	BaseNoDelete
	VenueID  uuid.UUID `db:"venue_id"`
	ClientID uuid.UUID `db:"client_id"`
	Rating   int       `db:"rating"` // 1-5
	Comment  *string   `db:"comment"`
}
