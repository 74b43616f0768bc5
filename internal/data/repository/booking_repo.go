package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"room-booking/internal/apperr"
	"room-booking/internal/data/entity"
	"room-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// CreateConfirmed inserts a CONFIRMED booking inside one transaction
	// that holds the room row lock across the overlap re-check. It is the
	// only way a CONFIRMED booking comes into existence.
	CreateConfirmed(ctx context.Context, booking *entity.Booking) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindConfirmedByRoomAndRange(ctx context.Context, roomID int64, from, to time.Time) ([]*entity.Booking, error)
	FindUpcoming(ctx context.Context, from time.Time, limit int) ([]*entity.Booking, error)

	// Pre-lock gate queries
	SumConfirmedMinutes(ctx context.Context, userID uuid.UUID, dayStart, dayEnd time.Time) (int, error)
	FindUserOverlap(ctx context.Context, userID uuid.UUID, start, end time.Time) (*entity.Booking, error)

	// Versioned mutation path
	CancelWithVersion(ctx context.Context, id uuid.UUID, version int) (*entity.Booking, error)
	UpdateDetailsWithVersion(ctx context.Context, id uuid.UUID, version int, title string, description *string) (*entity.Booking, error)
}

type bookingRepository struct {
	db          database.PgxIface
	lockTimeout time.Duration
	log         *zap.Logger
}

func NewBookingRepository(db database.PgxIface, lockTimeout time.Duration, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:          db,
		lockTimeout: lockTimeout,
		log:         log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, room_id, user_id, start_time, end_time, title, description, status, version, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.UserID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Title,
		&booking.Description,
		&booking.Status,
		&booking.Version,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// translatePgError maps lock-wait and serialization failures onto the
// retryable transient kind; everything else stays a wrapped internal error.
func translatePgError(err error, operation string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03": // lock_not_available
			return apperr.Wrap(apperr.KindTransient, err, "room lock wait timed out")
		case "40001": // serialization_failure
			return apperr.Wrap(apperr.KindTransient, err, "transaction serialization failure")
		case "57014": // query_canceled
			return apperr.Wrap(apperr.KindTransient, err, "statement cancelled")
		}
	}
	return fmt.Errorf("%s: %w", operation, err)
}

func (r *bookingRepository) CreateConfirmed(ctx context.Context, booking *entity.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		r.log.Error("Failed to begin booking transaction", zap.Error(err))
		return translatePgError(err, "begin booking transaction")
	}
	defer tx.Rollback(ctx)

	// Bound the room-lock wait; exceeding it aborts the whole transaction.
	setTimeout := fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeout.Milliseconds())
	if _, err := tx.Exec(ctx, setTimeout); err != nil {
		return translatePgError(err, "set lock timeout")
	}

	// The room row is the sole serialization point for this room. Other
	// rooms' transactions proceed independently.
	var available bool
	err = tx.QueryRow(ctx, `SELECT available FROM rooms WHERE id = $1 FOR UPDATE`, booking.RoomID).Scan(&available)
	if err == pgx.ErrNoRows {
		return apperr.NotFoundf("room %d not found", booking.RoomID)
	}
	if err != nil {
		r.log.Error("Failed to lock room row",
			zap.Error(err),
			zap.Int64("room_id", booking.RoomID),
		)
		return translatePgError(err, fmt.Sprintf("lock room %d", booking.RoomID))
	}
	if !available {
		return apperr.Conflictf("room %d is not available for booking", booking.RoomID)
	}

	// Re-check overlap while holding the room lock. Locking the read, not
	// just the write, closes the check-then-act race: a concurrent insert
	// for this room cannot pass its own check until we commit or roll back.
	var conflictID uuid.UUID
	var conflictStart, conflictEnd time.Time
	err = tx.QueryRow(ctx, `
		SELECT id, start_time, end_time
		FROM bookings
		WHERE room_id = $1 AND status = 'CONFIRMED'
		  AND start_time < $3 AND end_time > $2
		LIMIT 1
		FOR UPDATE
	`, booking.RoomID, booking.StartTime, booking.EndTime).Scan(&conflictID, &conflictStart, &conflictEnd)
	if err == nil {
		return apperr.Conflictf("room %d is already booked from %s to %s",
			booking.RoomID,
			conflictStart.Format("15:04"),
			conflictEnd.Format("15:04"),
		)
	}
	if err != pgx.ErrNoRows {
		r.log.Error("Failed to check booking overlap",
			zap.Error(err),
			zap.Int64("room_id", booking.RoomID),
		)
		return translatePgError(err, fmt.Sprintf("check overlap for room %d", booking.RoomID))
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (id, room_id, user_id, start_time, end_time, title, description, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		booking.ID,
		booking.RoomID,
		booking.UserID,
		booking.StartTime,
		booking.EndTime,
		booking.Title,
		booking.Description,
		booking.Status,
		booking.Version,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert booking",
			zap.Error(err),
			zap.Int64("room_id", booking.RoomID),
			zap.String("user_id", booking.UserID.String()),
		)
		return translatePgError(err, fmt.Sprintf("insert booking %s", booking.ID.String()))
	}

	if err := tx.Commit(ctx); err != nil {
		return translatePgError(err, "commit booking transaction")
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindConfirmedByRoomAndRange(ctx context.Context, roomID int64, from, to time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE room_id = $1 AND status = 'CONFIRMED'
		  AND start_time >= $2 AND start_time < $3
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, roomID, from, to)
	if err != nil {
		r.log.Error("Failed to find bookings by room",
			zap.Error(err),
			zap.Int64("room_id", roomID),
		)
		return nil, fmt.Errorf("find bookings for room %d: %w", roomID, err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) FindUpcoming(ctx context.Context, from time.Time, limit int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'CONFIRMED' AND start_time >= $1
		ORDER BY start_time
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, from, limit)
	if err != nil {
		r.log.Error("Failed to find upcoming bookings", zap.Error(err))
		return nil, fmt.Errorf("find upcoming bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) SumConfirmedMinutes(ctx context.Context, userID uuid.UUID, dayStart, dayEnd time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(EXTRACT(EPOCH FROM (end_time - start_time)) / 60), 0)::int
		FROM bookings
		WHERE user_id = $1 AND status = 'CONFIRMED'
		  AND start_time >= $2 AND start_time < $3
	`

	var minutes int
	err := r.db.QueryRow(ctx, query, userID, dayStart, dayEnd).Scan(&minutes)
	if err != nil {
		r.log.Error("Failed to sum confirmed minutes",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("sum confirmed minutes for user %s: %w", userID.String(), err)
	}

	return minutes, nil
}

func (r *bookingRepository) FindUserOverlap(ctx context.Context, userID uuid.UUID, start, end time.Time) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND status = 'CONFIRMED'
		  AND start_time < $3 AND end_time > $2
		LIMIT 1
	`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, userID, start, end))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user overlap",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find overlap for user %s: %w", userID.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) CancelWithVersion(ctx context.Context, id uuid.UUID, version int) (*entity.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, translatePgError(err, "begin cancel transaction")
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE bookings
		SET status = 'CANCELLED', version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2 AND status = 'CONFIRMED'
		RETURNING ` + bookingColumns

	booking, err := scanBooking(tx.QueryRow(ctx, query, id, version))
	if err == pgx.ErrNoRows {
		// Zero rows affected: read back to report why.
		return nil, r.diagnoseMutationMiss(ctx, tx, id, version)
	}
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, translatePgError(err, fmt.Sprintf("cancel booking %s", id.String()))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translatePgError(err, "commit cancel transaction")
	}

	return booking, nil
}

func (r *bookingRepository) UpdateDetailsWithVersion(ctx context.Context, id uuid.UUID, version int, title string, description *string) (*entity.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, translatePgError(err, "begin update transaction")
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE bookings
		SET title = $3, description = $4, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2 AND status = 'CONFIRMED'
		RETURNING ` + bookingColumns

	booking, err := scanBooking(tx.QueryRow(ctx, query, id, version, title, description))
	if err == pgx.ErrNoRows {
		return nil, r.diagnoseMutationMiss(ctx, tx, id, version)
	}
	if err != nil {
		r.log.Error("Failed to update booking details",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, translatePgError(err, fmt.Sprintf("update booking %s", id.String()))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translatePgError(err, "commit update transaction")
	}

	return booking, nil
}

// diagnoseMutationMiss distinguishes why a conditional mutation matched zero
// rows: missing booking, terminal CANCELLED status, or a stale version token.
func (r *bookingRepository) diagnoseMutationMiss(ctx context.Context, tx pgx.Tx, id uuid.UUID, version int) error {
	var status entity.BookingStatus
	var storedVersion int
	err := tx.QueryRow(ctx, `SELECT status, version FROM bookings WHERE id = $1`, id).Scan(&status, &storedVersion)
	if err == pgx.ErrNoRows {
		return apperr.NotFoundf("booking %s not found", id.String())
	}
	if err != nil {
		return translatePgError(err, fmt.Sprintf("read back booking %s", id.String()))
	}

	if status == entity.BookingStatusCancelled {
		return apperr.Validationf("booking %s is already cancelled", id.String())
	}

	return apperr.VersionConflictf("booking %s version mismatch: stored %d, supplied %d",
		id.String(), storedVersion, version)
}
