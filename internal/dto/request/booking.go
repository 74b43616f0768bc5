package request

import "time"

type CreateBookingRequest struct {
	RoomID      int64     `json:"room_id" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// CancelBookingRequest carries the version the caller last observed.
// Version is a pointer so 0 (a freshly created booking) still validates.
type CancelBookingRequest struct {
	Version *int `json:"version" validate:"required,min=0"`
}

type UpdateBookingRequest struct {
	Version     *int    `json:"version" validate:"required,min=0"`
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}
