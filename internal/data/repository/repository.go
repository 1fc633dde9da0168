package repository

import (
	"venue-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User             UserRepository
	Session          SessionRepository
	VerificationCode VerificationCodeRepository
	Venue            VenueRepository
	Availability     AvailabilityRepository
	Booking          BookingRepository
	Review           ReviewRepository
	Favorite         FavoriteRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:             NewUserRepository(db, log),
		Session:          NewSessionRepository(db, log),
		VerificationCode: NewVerificationCodeRepository(db, log),
		Venue:            NewVenueRepository(db, log),
		Availability:     NewAvailabilityRepository(db, log),
		Booking:          NewBookingRepository(db, log),
		Review:           NewReviewRepository(db, log),
		Favorite:         NewFavoriteRepository(db, log),
	}
}
