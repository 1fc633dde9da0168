package entity

import (
	"time"

	"github.com/google/uuid"
)

// VenueAvailability is a per-date override. Dates without a row are open.
type VenueAvailability struct {
	BaseNoDelete
	VenueID     uuid.UUID `db:"venue_id"`
	Date        time.Time `db:"date"`
	IsAvailable bool      `db:"is_available"`
	Note        *string   `db:"note"`
}
