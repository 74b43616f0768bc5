package response

import (
	"time"

	"room-booking/internal/data/entity"
)

type BookingResponse struct {
	ID          string               `json:"id"`
	RoomID      int64                `json:"room_id"`
	UserID      string               `json:"user_id"`
	StartTime   time.Time            `json:"start_time"`
	EndTime     time.Time            `json:"end_time"`
	Title       string               `json:"title"`
	Description *string              `json:"description,omitempty"`
	Status      entity.BookingStatus `json:"status"`
	Version     int                  `json:"version"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:          booking.ID.String(),
		RoomID:      booking.RoomID,
		UserID:      booking.UserID.String(),
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
		Title:       booking.Title,
		Description: booking.Description,
		Status:      booking.Status,
		Version:     booking.Version,
		CreatedAt:   booking.CreatedAt,
		UpdatedAt:   booking.UpdatedAt,
	}
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	responses := make([]BookingResponse, len(bookings))
	for i, booking := range bookings {
		responses[i] = BookingToResponse(booking)
	}
	return responses
}
