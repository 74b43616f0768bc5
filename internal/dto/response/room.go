package response

import (
	"room-booking/internal/data/entity"
)

type RoomResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Version   int    `json:"version"`
}

func RoomToResponse(room *entity.Room) RoomResponse {
	return RoomResponse{
		ID:        room.ID,
		Name:      room.Name,
		Available: room.Available,
		Version:   room.Version,
	}
}
