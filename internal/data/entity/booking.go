package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// bookingTransitions lists the statuses a provider may move a booking to.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Booking struct {
	Base
	OrderID         string        `db:"order_id"`
	VenueID         uuid.UUID     `db:"venue_id"`
	ClientID        uuid.UUID     `db:"client_id"`
	ProviderID      uuid.UUID     `db:"provider_id"`
	EventDate       time.Time     `db:"event_date"`
	GuestCount      int           `db:"guest_count"`
	TotalPrice      float64       `db:"total_price"`
	Status          BookingStatus `db:"status"`
	PaymentStatus   PaymentStatus `db:"payment_status"`
	StartTime       *string       `db:"start_time"`
	EndTime         *string       `db:"end_time"`
	SpecialRequests *string       `db:"special_requests"`
	HasSecurity     bool          `db:"has_security"`
	HasCleaning     bool          `db:"has_cleaning"`
	ConfirmedAt     *time.Time    `db:"confirmed_at"`
}
