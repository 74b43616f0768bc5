package wire

import (
	"room-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireRoom(r chi.Router, roomHandler *adaptor.RoomHandler) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/rooms - List rooms
	r.Get("/api/rooms", roomHandler.GetRooms)

	// GET /api/rooms/{id} - Room details
	r.Get("/api/rooms/{id}", roomHandler.GetRoomByID)
}
