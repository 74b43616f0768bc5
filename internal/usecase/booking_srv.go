package usecase

import (
	"context"
	"encoding/json"
	"time"

	"room-booking/internal/apperr"
	"room-booking/internal/cache"
	"room-booking/internal/data/entity"
	"room-booking/internal/data/repository"
	"room-booking/internal/dto/request"
	"room-booking/internal/dto/response"
	"room-booking/internal/ratelimit"
	"room-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Mutations, all rate limited per (user, action)
	CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, userID uuid.UUID, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error)
	UpdateBooking(ctx context.Context, userID uuid.UUID, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error)

	// Reads
	GetBookingByID(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetRoomSchedule(ctx context.Context, roomID int64, date string) ([]response.BookingResponse, error)
	GetUpcomingBookings(ctx context.Context) ([]response.BookingResponse, error)
}

const upcomingLimit = 50

type bookingService struct {
	repo        *repository.Repository
	limiter     *ratelimit.Limiter
	cache       cache.Cache
	invalidator *cache.Invalidator
	rules       *admissionRules
	quota       int
	cacheTTL    time.Duration
	loc         *time.Location
	log         *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	limiter *ratelimit.Limiter,
	cacheStore cache.Cache,
	config *utils.Config,
	log *zap.Logger,
) BookingService {
	loc, err := time.LoadLocation(config.Booking.Timezone)
	if err != nil {
		log.Warn("Unknown booking timezone, falling back to local",
			zap.String("timezone", config.Booking.Timezone),
			zap.Error(err),
		)
		loc = time.Local
	}

	return &bookingService{
		repo:        repo,
		limiter:     limiter,
		cache:       cacheStore,
		invalidator: cache.NewInvalidator(cacheStore, log),
		rules:       newAdmissionRules(config.Booking, loc, repo.Holiday),
		quota:       config.Booking.DailyQuotaMinutes,
		cacheTTL:    config.Cache.TTL,
		loc:         loc,
		log:         log.With(zap.String("service", "booking")),
	}
}

// CreateBooking runs the admission pipeline. Each gate short-circuits so a
// doomed request never reaches the next, more expensive, stage; only the
// final stage takes the room lock.
func (s *bookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// Gate 1: rate limiter, before any validation or locking work
	if err := s.allow(ctx, userID, ratelimit.ActionCreate); err != nil {
		return nil, err
	}

	// Gate 2: structural validation
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, apperr.Validationf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	start := req.StartTime.In(s.loc)
	end := req.EndTime.In(s.loc)

	// Gate 3: admission rules
	if err := s.rules.Check(ctx, start, end); err != nil {
		return nil, err
	}

	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, s.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	// Gate 4: daily quota across all rooms
	bookedMinutes, err := s.repo.Booking.SumConfirmedMinutes(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	newMinutes := int(end.Sub(start).Minutes())
	if bookedMinutes+newMinutes > s.quota {
		return nil, apperr.Validationf("daily quota exceeded: %d of %d minutes already booked, requested %d more",
			bookedMinutes, s.quota, newMinutes)
	}

	// Gate 5: double-booking guard across all rooms
	overlap, err := s.repo.Booking.FindUserOverlap(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if overlap != nil {
		return nil, apperr.Conflictf("user already has a booking in room %d from %s to %s",
			overlap.RoomID,
			overlap.StartTime.In(s.loc).Format("15:04"),
			overlap.EndTime.In(s.loc).Format("15:04"),
		)
	}

	// Gate 6: conflict resolver. Room lock, overlap re-check and insert
	// happen in one transaction inside the repository.
	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RoomID:      req.RoomID,
		UserID:      userID,
		StartTime:   start,
		EndTime:     end,
		Title:       req.Title,
		Description: req.Description,
		Status:      entity.BookingStatusConfirmed,
		Version:     0,
	}

	if err := s.repo.Booking.CreateConfirmed(ctx, booking); err != nil {
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.Int64("room_id", booking.RoomID),
		zap.String("user_id", userID.String()),
		zap.Time("start_time", start),
		zap.Time("end_time", end),
	)

	s.invalidator.BookingChanged(ctx, booking.RoomID, userID, dayStart)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userID uuid.UUID, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error) {
	if err := s.allow(ctx, userID, ratelimit.ActionCancel); err != nil {
		return nil, err
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Cancel booking validation failed", zap.Any("errors", errs))
		return nil, apperr.Validationf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.loadOwnedBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	cancelled, err := s.repo.Booking.CancelWithVersion(ctx, booking.ID, *req.Version)
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", cancelled.ID.String()),
		zap.Int64("room_id", cancelled.RoomID),
		zap.String("user_id", userID.String()),
		zap.Int("version", cancelled.Version),
	)

	day := cancelled.StartTime.In(s.loc)
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)
	s.invalidator.BookingChanged(ctx, cancelled.RoomID, userID, dayStart)

	resp := response.BookingToResponse(cancelled)
	return &resp, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, userID uuid.UUID, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	if err := s.allow(ctx, userID, ratelimit.ActionUpdate); err != nil {
		return nil, err
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update booking validation failed", zap.Any("errors", errs))
		return nil, apperr.Validationf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.loadOwnedBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Booking.UpdateDetailsWithVersion(ctx, booking.ID, *req.Version, req.Title, req.Description)
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking updated",
		zap.String("booking_id", updated.ID.String()),
		zap.Int("version", updated.Version),
	)

	day := updated.StartTime.In(s.loc)
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)
	s.invalidator.BookingChanged(ctx, updated.RoomID, userID, dayStart)

	resp := response.BookingToResponse(updated)
	return &resp, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.loadOwnedBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetRoomSchedule(ctx context.Context, roomID int64, date string) ([]response.BookingResponse, error) {
	room, err := s.repo.Room.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, apperr.NotFoundf("room %d not found", roomID)
	}

	dayStart := utils.ParseDate(date, s.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	key := cache.RoomDayKey(roomID, dayStart)

	if cached, ok := s.cacheGet(ctx, key); ok {
		return cached, nil
	}

	bookings, err := s.repo.Booking.FindConfirmedByRoomAndRange(ctx, roomID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	responses := response.BookingsToResponse(bookings)
	s.cacheSet(ctx, key, responses)

	return responses, nil
}

func (s *bookingService) GetUpcomingBookings(ctx context.Context) ([]response.BookingResponse, error) {
	if cached, ok := s.cacheGet(ctx, cache.UpcomingKey); ok {
		return cached, nil
	}

	bookings, err := s.repo.Booking.FindUpcoming(ctx, time.Now(), upcomingLimit)
	if err != nil {
		return nil, err
	}

	responses := response.BookingsToResponse(bookings)
	s.cacheSet(ctx, cache.UpcomingKey, responses)

	return responses, nil
}

// ==================== HELPERS ====================

func (s *bookingService) allow(ctx context.Context, userID uuid.UUID, action ratelimit.Action) error {
	dec, err := s.limiter.Allow(ctx, userID, action)
	if err != nil {
		return apperr.Wrap(apperr.KindTransient, err, "rate limit store unavailable")
	}
	if !dec.Allowed {
		return apperr.RateLimited(dec.RetryAfter)
	}
	return nil
}

// loadOwnedBooking resolves the id and enforces that only the booking's
// owner may see or mutate it.
func (s *bookingService) loadOwnedBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.Validationf("invalid booking ID format %s", bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFoundf("booking %s not found", bookingID)
	}

	if booking.UserID != userID {
		return nil, apperr.Forbiddenf("booking %s belongs to another user", bookingID)
	}

	return booking, nil
}

func (s *bookingService) cacheGet(ctx context.Context, key string) ([]response.BookingResponse, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if err != cache.ErrMiss {
			s.log.Warn("Cache read failed", zap.Error(err), zap.String("key", key))
		}
		return nil, false
	}

	var responses []response.BookingResponse
	if err := json.Unmarshal(data, &responses); err != nil {
		s.log.Warn("Cache entry corrupt", zap.Error(err), zap.String("key", key))
		return nil, false
	}

	return responses, true
}

func (s *bookingService) cacheSet(ctx context.Context, key string, responses []response.BookingResponse) {
	data, err := json.Marshal(responses)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.log.Warn("Cache write failed", zap.Error(err), zap.String("key", key))
	}
}
