package entity

import (
	"github.com/google/uuid"
)

type Favorite struct {
	BaseSimple
	UserID  uuid.UUID `db:"user_id"`
	VenueID uuid.UUID `db:"venue_id"`
}
