package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking rows are created only through BookingRepository.CreateConfirmed
// and mutated only through the versioned update/cancel paths. They are
// never physically deleted.
type Booking struct {
	Base
	RoomID      int64         `db:"room_id"`
	UserID      uuid.UUID     `db:"user_id"`
	StartTime   time.Time     `db:"start_time"`
	EndTime     time.Time     `db:"end_time"`
	Title       string        `db:"title"`
	Description *string       `db:"description"`
	Status      BookingStatus `db:"status"`
	Version     int           `db:"version"`
}

// DurationMinutes is the booked span in whole minutes.
func (b *Booking) DurationMinutes() int {
	return int(b.EndTime.Sub(b.StartTime).Minutes())
}
