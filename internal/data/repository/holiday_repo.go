package repository

import (
	"context"
	"fmt"
	"time"

	"room-booking/pkg/database"

	"go.uber.org/zap"
)

// HolidayRepository is a read-only date lookup consulted by the admission
// rules. Holiday maintenance lives outside the booking core.
type HolidayRepository interface {
	ExistsOnDate(ctx context.Context, date time.Time) (bool, error)
}

type holidayRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewHolidayRepository(db database.PgxIface, log *zap.Logger) HolidayRepository {
	return &holidayRepository{
		db:  db,
		log: log.With(zap.String("repository", "holiday")),
	}
}

func (r *holidayRepository) ExistsOnDate(ctx context.Context, date time.Time) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM holidays WHERE holiday_date = $1)`

	var exists bool
	err := r.db.QueryRow(ctx, query, date.Format("2006-01-02")).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check holiday",
			zap.Error(err),
			zap.String("date", date.Format("2006-01-02")),
		)
		return false, fmt.Errorf("check holiday on %s: %w", date.Format("2006-01-02"), err)
	}

	return exists, nil
}
