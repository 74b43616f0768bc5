package usecase

import (
	"room-booking/internal/cache"
	"room-booking/internal/data/repository"
	"room-booking/internal/ratelimit"
	"room-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	Room    RoomService
	Booking BookingService
}

func NewService(
	repo *repository.Repository,
	limiter *ratelimit.Limiter,
	cacheStore cache.Cache,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:    NewAuthService(repo, config, log),
		Room:    NewRoomService(repo, log),
		Booking: NewBookingService(repo, limiter, cacheStore, config, log),
	}
}
