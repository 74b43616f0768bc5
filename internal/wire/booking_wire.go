package wire

import (
	"room-booking/internal/adaptor"
	"room-booking/internal/data/repository"
	"room-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/bookings - Run the admission pipeline and create a booking
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/bookings/{id} - View own booking
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)

		// PATCH /api/bookings/{id} - Versioned title/description update
		r.Patch("/api/bookings/{id}", bookingHandler.UpdateBooking)

		// PUT /api/bookings/{id}/cancel - Versioned cancel
		r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)

		// GET /api/user/bookings - Own booking history
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
	})

	// ==================== PUBLIC ROUTES ====================
	// GET /api/rooms/{id}/bookings - Day schedule for a room
	r.Get("/api/rooms/{id}/bookings", bookingHandler.GetRoomSchedule)

	// GET /api/bookings/upcoming - Global upcoming aggregate
	r.Get("/api/bookings/upcoming", bookingHandler.GetUpcomingBookings)
}
