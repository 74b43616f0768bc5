package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"room-booking/internal/apperr"
	"room-booking/internal/cache"
	"room-booking/internal/data/entity"
	"room-booking/internal/data/repository"
	"room-booking/internal/dto/request"
	"room-booking/internal/ratelimit"
	"room-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ==================== FAKES ====================

type fakeRoomRepo struct {
	rooms map[int64]*entity.Room
}

func (f *fakeRoomRepo) FindByID(ctx context.Context, id int64) (*entity.Room, error) {
	room, ok := f.rooms[id]
	if !ok {
		return nil, nil
	}
	copied := *room
	return &copied, nil
}

func (f *fakeRoomRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.Room, error) {
	var rooms []*entity.Room
	for _, room := range f.rooms {
		copied := *room
		rooms = append(rooms, &copied)
	}
	return rooms, nil
}

func (f *fakeRoomRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.rooms)), nil
}

// fakeBookingRepo keeps bookings in a map guarded by one mutex, which
// stands in for the per-room row lock: CreateConfirmed re-checks overlap
// and inserts under it, so concurrent callers see a single winner.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
	rooms    map[int64]bool
}

func newFakeBookingRepo(rooms map[int64]bool) *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[uuid.UUID]*entity.Booking),
		rooms:    rooms,
	}
}

func (f *fakeBookingRepo) seed(b *entity.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *b
	f.bookings[b.ID] = &copied
}

func overlaps(a, b *entity.Booking) bool {
	return a.StartTime.Before(b.EndTime) && a.EndTime.After(b.StartTime)
}

func (f *fakeBookingRepo) CreateConfirmed(ctx context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	available, ok := f.rooms[booking.RoomID]
	if !ok {
		return apperr.NotFoundf("room %d not found", booking.RoomID)
	}
	if !available {
		return apperr.Conflictf("room %d is not available for booking", booking.RoomID)
	}

	for _, existing := range f.bookings {
		if existing.RoomID == booking.RoomID &&
			existing.Status == entity.BookingStatusConfirmed &&
			overlaps(existing, booking) {
			return apperr.Conflictf("room %d is already booked from %s to %s",
				booking.RoomID,
				existing.StartTime.Format("15:04"),
				existing.EndTime.Format("15:04"),
			)
		}
	}

	copied := *booking
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeBookingRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var bookings []*entity.Booking
	for _, booking := range f.bookings {
		if booking.UserID == userID {
			copied := *booking
			bookings = append(bookings, &copied)
		}
	}
	return bookings, nil
}

func (f *fakeBookingRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, booking := range f.bookings {
		if booking.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingRepo) FindConfirmedByRoomAndRange(ctx context.Context, roomID int64, from, to time.Time) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var bookings []*entity.Booking
	for _, booking := range f.bookings {
		if booking.RoomID == roomID &&
			booking.Status == entity.BookingStatusConfirmed &&
			booking.StartTime.Before(to) && booking.EndTime.After(from) {
			copied := *booking
			bookings = append(bookings, &copied)
		}
	}
	return bookings, nil
}

func (f *fakeBookingRepo) FindUpcoming(ctx context.Context, from time.Time, limit int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var bookings []*entity.Booking
	for _, booking := range f.bookings {
		if booking.Status == entity.BookingStatusConfirmed && booking.StartTime.After(from) {
			copied := *booking
			bookings = append(bookings, &copied)
		}
		if len(bookings) == limit {
			break
		}
	}
	return bookings, nil
}

func (f *fakeBookingRepo) SumConfirmedMinutes(ctx context.Context, userID uuid.UUID, dayStart, dayEnd time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := 0
	for _, booking := range f.bookings {
		if booking.UserID == userID &&
			booking.Status == entity.BookingStatusConfirmed &&
			!booking.StartTime.Before(dayStart) && booking.StartTime.Before(dayEnd) {
			total += booking.DurationMinutes()
		}
	}
	return total, nil
}

func (f *fakeBookingRepo) FindUserOverlap(ctx context.Context, userID uuid.UUID, start, end time.Time) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	probe := &entity.Booking{StartTime: start, EndTime: end}
	for _, booking := range f.bookings {
		if booking.UserID == userID &&
			booking.Status == entity.BookingStatusConfirmed &&
			overlaps(booking, probe) {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) CancelWithVersion(ctx context.Context, id uuid.UUID, version int) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[id]
	if !ok {
		return nil, apperr.NotFoundf("booking %s not found", id)
	}
	if booking.Status == entity.BookingStatusCancelled {
		return nil, apperr.Validationf("booking %s is already cancelled", id)
	}
	if booking.Version != version {
		return nil, apperr.VersionConflictf("booking %s is at version %d, supplied version %d", id, booking.Version, version)
	}

	booking.Status = entity.BookingStatusCancelled
	booking.Version++
	booking.UpdatedAt = time.Now()

	copied := *booking
	return &copied, nil
}

func (f *fakeBookingRepo) UpdateDetailsWithVersion(ctx context.Context, id uuid.UUID, version int, title string, description *string) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[id]
	if !ok {
		return nil, apperr.NotFoundf("booking %s not found", id)
	}
	if booking.Status == entity.BookingStatusCancelled {
		return nil, apperr.Validationf("booking %s is already cancelled", id)
	}
	if booking.Version != version {
		return nil, apperr.VersionConflictf("booking %s is at version %d, supplied version %d", id, booking.Version, version)
	}

	booking.Title = title
	booking.Description = description
	booking.Version++
	booking.UpdatedAt = time.Now()

	copied := *booking
	return &copied, nil
}

// ==================== SETUP ====================

type testEnv struct {
	svc      *bookingService
	bookings *fakeBookingRepo
	cache    *cache.MemoryCache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	bookings := newFakeBookingRepo(map[int64]bool{
		1: true,
		2: true,
		3: true,
		4: false,
	})
	rooms := &fakeRoomRepo{rooms: map[int64]*entity.Room{
		1: {ID: 1, Name: "Aster", Available: true},
		2: {ID: 2, Name: "Begonia", Available: true},
		3: {ID: 3, Name: "Clover", Available: true},
		4: {ID: 4, Name: "Dahlia", Available: false},
	}}
	repo := &repository.Repository{
		Room:    rooms,
		Holiday: &fakeHolidayRepo{dates: map[string]bool{"2025-06-05": true}},
		Booking: bookings,
	}

	config := &utils.Config{
		Booking:   testBookingConfig(),
		RateLimit: utils.RateLimitConfig{Capacity: 30, Window: time.Minute},
		Cache:     utils.CacheConfig{TTL: time.Minute},
	}

	log := zap.NewNop()
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), config.RateLimit.Capacity, config.RateLimit.Window, log)
	memCache := cache.NewMemoryCache()

	svc := NewBookingService(repo, limiter, memCache, config, log).(*bookingService)
	svc.rules.now = func() time.Time {
		return time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)
	}

	return &testEnv{svc: svc, bookings: bookings, cache: memCache}
}

func (e *testEnv) withLimiter(capacity int) *testEnv {
	e.svc.limiter = ratelimit.NewLimiter(ratelimit.NewMemoryStore(), capacity, time.Minute, zap.NewNop())
	return e
}

func createReq(roomID int64, start, end time.Time) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		RoomID:    roomID,
		StartTime: start,
		EndTime:   end,
		Title:     "Sprint planning",
	}
}

func seedBooking(roomID int64, userID uuid.UUID, start, end time.Time, status entity.BookingStatus, version int) *entity.Booking {
	now := time.Now()
	return &entity.Booking{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		RoomID:    roomID,
		UserID:    userID,
		StartTime: start,
		EndTime:   end,
		Title:     "seeded",
		Status:    status,
		Version:   version,
	}
}

func intPtr(v int) *int { return &v }

// ==================== CREATE ====================

func TestCreateBooking_Success(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()

	resp, err := env.svc.CreateBooking(context.Background(), userID, createReq(1, at(2, 9, 0), at(2, 10, 0)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Status != entity.BookingStatusConfirmed {
		t.Fatalf("expected status CONFIRMED, got %s", resp.Status)
	}
	if resp.Version != 0 {
		t.Fatalf("expected version 0 for a new booking, got %d", resp.Version)
	}
	if resp.RoomID != 1 {
		t.Fatalf("expected room 1, got %d", resp.RoomID)
	}

	id, err := uuid.Parse(resp.ID)
	if err != nil {
		t.Fatalf("response ID is not a uuid: %v", err)
	}
	stored, _ := env.bookings.FindByID(context.Background(), id)
	if stored == nil {
		t.Fatalf("booking not persisted")
	}
}

func TestCreateBooking_RateLimiterRunsFirst(t *testing.T) {
	env := newTestEnv(t).withLimiter(1)
	userID := uuid.New()

	// Invalid payload: with a token available the validation gate rejects it
	bad := createReq(1, at(2, 9, 0), at(2, 10, 0))
	bad.Title = ""

	_, err := env.svc.CreateBooking(context.Background(), userID, bad)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Bucket exhausted: the same invalid payload now fails at the limiter,
	// proving the limiter gate runs before validation
	_, err = env.svc.CreateBooking(context.Background(), userID, bad)
	if !apperr.IsKind(err, apperr.KindRateLimit) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if apperr.RetryAfterOf(err) <= 0 {
		t.Fatalf("expected a positive retry-after hint")
	}
}

func TestCreateBooking_ValidationRejects(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()

	tests := []struct {
		name   string
		mutate func(*request.CreateBookingRequest)
	}{
		{"missing room", func(r *request.CreateBookingRequest) { r.RoomID = 0 }},
		{"missing title", func(r *request.CreateBookingRequest) { r.Title = "" }},
		{"title too long", func(r *request.CreateBookingRequest) { r.Title = strings.Repeat("x", 201) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createReq(1, at(2, 9, 0), at(2, 10, 0))
			tt.mutate(req)

			_, err := env.svc.CreateBooking(context.Background(), userID, req)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateBooking_UnknownRoom(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateBooking(context.Background(), uuid.New(), createReq(99, at(2, 9, 0), at(2, 10, 0)))
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCreateBooking_UnavailableRoom(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateBooking(context.Background(), uuid.New(), createReq(4, at(2, 9, 0), at(2, 10, 0)))
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCreateBooking_RoomSlotTaken(t *testing.T) {
	env := newTestEnv(t)
	env.bookings.seed(seedBooking(1, uuid.New(), at(2, 9, 0), at(2, 10, 0), entity.BookingStatusConfirmed, 0))

	_, err := env.svc.CreateBooking(context.Background(), uuid.New(), createReq(1, at(2, 9, 30), at(2, 10, 30)))
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}

	// Back-to-back is not an overlap: [10:00, 11:00) after [9:00, 10:00)
	if _, err := env.svc.CreateBooking(context.Background(), uuid.New(), createReq(1, at(2, 10, 0), at(2, 11, 0))); err != nil {
		t.Fatalf("adjacent booking should be accepted, got %v", err)
	}
}

func TestCreateBooking_CancelledBookingDoesNotBlock(t *testing.T) {
	env := newTestEnv(t)
	env.bookings.seed(seedBooking(1, uuid.New(), at(2, 9, 0), at(2, 10, 0), entity.BookingStatusCancelled, 1))

	if _, err := env.svc.CreateBooking(context.Background(), uuid.New(), createReq(1, at(2, 9, 0), at(2, 10, 0))); err != nil {
		t.Fatalf("cancelled booking must not block the slot, got %v", err)
	}
}

func TestCreateBooking_UserDoubleBookingAcrossRooms(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	env.bookings.seed(seedBooking(2, userID, at(2, 9, 0), at(2, 10, 0), entity.BookingStatusConfirmed, 0))

	// Same user, different room, overlapping time
	_, err := env.svc.CreateBooking(context.Background(), userID, createReq(3, at(2, 9, 30), at(2, 10, 30)))
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if !strings.Contains(err.Error(), "room 2") {
		t.Fatalf("expected the conflicting room in the message, got %q", err.Error())
	}

	// A different user is free to take the other room
	if _, err := env.svc.CreateBooking(context.Background(), uuid.New(), createReq(3, at(2, 9, 30), at(2, 10, 30))); err != nil {
		t.Fatalf("other user should be accepted, got %v", err)
	}
}

func TestCreateBooking_DailyQuota(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()

	// 510 of the 540 daily minutes already booked
	env.bookings.seed(seedBooking(2, userID, at(2, 8, 0), at(2, 16, 30), entity.BookingStatusConfirmed, 0))

	// 60 more minutes would exceed the quota
	_, err := env.svc.CreateBooking(context.Background(), userID, createReq(1, at(2, 17, 0), at(2, 18, 0)))
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "daily quota exceeded") {
		t.Fatalf("expected quota message, got %q", err.Error())
	}

	// 30 more minutes lands exactly on the quota and is accepted
	if _, err := env.svc.CreateBooking(context.Background(), userID, createReq(1, at(2, 17, 0), at(2, 17, 30))); err != nil {
		t.Fatalf("booking up to the quota should be accepted, got %v", err)
	}
}

func TestCreateBooking_QuotaIgnoresCancelledAndOtherDays(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()

	// Cancelled minutes and other days do not count against today
	env.bookings.seed(seedBooking(2, userID, at(2, 8, 0), at(2, 16, 30), entity.BookingStatusCancelled, 1))
	env.bookings.seed(seedBooking(2, userID, at(3, 8, 0), at(3, 16, 30), entity.BookingStatusConfirmed, 0))

	if _, err := env.svc.CreateBooking(context.Background(), userID, createReq(1, at(2, 9, 0), at(2, 18, 0))); err != nil {
		t.Fatalf("expected acceptance, got %v", err)
	}
}

func TestCreateBooking_SingleWinner(t *testing.T) {
	env := newTestEnv(t)

	const contenders = 16
	var wg sync.WaitGroup
	errs := make([]error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.CreateBooking(context.Background(), uuid.New(), createReq(1, at(2, 9, 0), at(2, 10, 0)))
		}(i)
	}
	wg.Wait()

	winners, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case apperr.IsKind(err, apperr.KindConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error kind: %v", err)
		}
	}

	if winners != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", winners)
	}
	if conflicts != contenders-1 {
		t.Fatalf("expected %d conflicts, got %d", contenders-1, conflicts)
	}
}

// ==================== CANCEL ====================

func TestCancelBooking(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()

	booking := seedBooking(1, userID, at(2, 9, 0), at(2, 10, 0), entity.BookingStatusConfirmed, 3)
	env.bookings.seed(booking)
	id := booking.ID.String()

	// Stale version is rejected without mutating
	_, err := env.svc.CancelBooking(context.Background(), userID, id, &request.CancelBookingRequest{Version: intPtr(2)})
	if !apperr.IsKind(err, apperr.KindVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}

	// Matching version cancels and bumps the version
	resp, err := env.svc.CancelBooking(context.Background(), userID, id, &request.CancelBookingRequest{Version: intPtr(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != entity.BookingStatusCancelled {
		t.Fatalf("expected status CANCELLED, got %s", resp.Status)
	}
	if resp.Version != 4 {
		t.Fatalf("expected version 4 after cancel, got %d", resp.Version)
	}

	// Cancel is not idempotent: a second cancel is a validation error even
	// with the current version
	_, err = env.svc.CancelBooking(context.Background(), userID, id, &request.CancelBookingRequest{Version: intPtr(4)})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error on repeat cancel, got %v", err)
	}
}

func TestCancelBooking_Ownership(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()

	booking := seedBooking(1, owner, at(2, 9, 0), at(2, 10, 0), entity.BookingStatusConfirmed, 0)
	env.bookings.seed(booking)

	_, err := env.svc.CancelBooking(context.Background(), uuid.New(), booking.ID.String(), &request.CancelBookingRequest{Version: intPtr(0)})
	if !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestCancelBooking_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CancelBooking(context.Background(), uuid.New(), uuid.New().String(), &request.CancelBookingRequest{Version: intPtr(0)})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCancelBooking_InvalidID(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CancelBooking(context.Background(), uuid.New(), "not-a-uuid", &request.CancelBookingRequest{Version: intPtr(0)})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCancelBooking_MissingVersion(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CancelBooking(context.Background(), uuid.New(), uuid.New().String(), &request.CancelBookingRequest{})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

// ==================== UPDATE ====================

func TestUpdateBooking_VersionMonotonic(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()

	created, err := env.svc.CreateBooking(context.Background(), userID, createReq(1, at(2, 9, 0), at(2, 10, 0)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := env.svc.UpdateBooking(context.Background(), userID, created.ID, &request.UpdateBookingRequest{
		Version: intPtr(created.Version),
		Title:   "Sprint planning, extended",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Version != created.Version+1 {
		t.Fatalf("expected version %d, got %d", created.Version+1, first.Version)
	}

	// Replaying the original version loses
	_, err = env.svc.UpdateBooking(context.Background(), userID, created.ID, &request.UpdateBookingRequest{
		Version: intPtr(created.Version),
		Title:   "stale writer",
	})
	if !apperr.IsKind(err, apperr.KindVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}

	second, err := env.svc.UpdateBooking(context.Background(), userID, created.ID, &request.UpdateBookingRequest{
		Version: intPtr(first.Version),
		Title:   "Sprint planning, final",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Version != first.Version+1 {
		t.Fatalf("expected version %d, got %d", first.Version+1, second.Version)
	}
	if second.Title != "Sprint planning, final" {
		t.Fatalf("expected updated title, got %q", second.Title)
	}
}

// ==================== READS AND CACHE ====================

func TestGetRoomSchedule_CachesAndInvalidates(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()

	if _, err := env.svc.CreateBooking(context.Background(), userID, createReq(1, at(2, 9, 0), at(2, 10, 0))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	schedule, err := env.svc.GetRoomSchedule(context.Background(), 1, "2025-06-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schedule) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(schedule))
	}

	// Seed a booking behind the cache's back: the cached schedule wins
	env.bookings.seed(seedBooking(1, uuid.New(), at(2, 11, 0), at(2, 12, 0), entity.BookingStatusConfirmed, 0))

	schedule, err = env.svc.GetRoomSchedule(context.Background(), 1, "2025-06-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schedule) != 1 {
		t.Fatalf("expected cached schedule with 1 booking, got %d", len(schedule))
	}

	// A mutation through the service evicts the day key
	if _, err := env.svc.CreateBooking(context.Background(), userID, createReq(1, at(2, 13, 0), at(2, 14, 0))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	schedule, err = env.svc.GetRoomSchedule(context.Background(), 1, "2025-06-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schedule) != 3 {
		t.Fatalf("expected fresh schedule with 3 bookings, got %d", len(schedule))
	}
}

func TestGetRoomSchedule_UnknownRoom(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.GetRoomSchedule(context.Background(), 99, "2025-06-02")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestGetBookingByID_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()

	booking := seedBooking(1, owner, at(2, 9, 0), at(2, 10, 0), entity.BookingStatusConfirmed, 0)
	env.bookings.seed(booking)

	resp, err := env.svc.GetBookingByID(context.Background(), owner, booking.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ID != booking.ID.String() {
		t.Fatalf("expected booking %s, got %s", booking.ID, resp.ID)
	}

	if _, err := env.svc.GetBookingByID(context.Background(), uuid.New(), booking.ID.String()); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}
