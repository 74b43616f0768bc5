package repository

import (
	"room-booking/pkg/database"
	"room-booking/pkg/utils"

	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Session SessionRepository
	Room    RoomRepository
	Holiday HolidayRepository
	Booking BookingRepository
}

func NewRepository(db database.PgxIface, config *utils.Config, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		Room:    NewRoomRepository(db, log),
		Holiday: NewHolidayRepository(db, log),
		Booking: NewBookingRepository(db, config.Booking.LockTimeout, log),
	}
}
