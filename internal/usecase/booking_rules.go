package usecase

import (
	"context"
	"fmt"
	"time"

	"room-booking/internal/apperr"
	"room-booking/internal/data/repository"
	"room-booking/pkg/utils"
)

// admissionRules runs the pure, lock-free admission checks in a fixed,
// cost-ascending order and fails on the first violation. No locks are
// taken here; the holiday lookup is the only external read.
type admissionRules struct {
	openHour  int
	closeHour int
	loc       *time.Location
	holidays  repository.HolidayRepository

	now func() time.Time
}

func newAdmissionRules(config utils.BookingConfig, loc *time.Location, holidays repository.HolidayRepository) *admissionRules {
	return &admissionRules{
		openHour:  config.OpenHour,
		closeHour: config.CloseHour,
		loc:       loc,
		holidays:  holidays,
		now:       time.Now,
	}
}

// Check expects start and end already normalized to the rules' location.
func (r *admissionRules) Check(ctx context.Context, start, end time.Time) error {
	// 1. Positive duration
	if !end.After(start) {
		return apperr.Validationf("end time must be after start time")
	}

	// 2. No bookings in the past
	if start.Before(r.now()) {
		return apperr.Validationf("start time is in the past")
	}

	// 3. Single-day bookings only
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy != ey || sm != em || sd != ed {
		return apperr.Validationf("booking cannot span multiple days")
	}

	// 4. Weekdays only
	if wd := start.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return apperr.Validationf("bookings are not accepted on weekends")
	}

	// 5. Holiday lookup, the only check that leaves the process
	day := time.Date(sy, sm, sd, 0, 0, 0, 0, r.loc)
	isHoliday, err := r.holidays.ExistsOnDate(ctx, day)
	if err != nil {
		return fmt.Errorf("holiday lookup: %w", err)
	}
	if isHoliday {
		return apperr.Validationf("%s is a holiday", day.Format("2006-01-02"))
	}

	// 6. Business hours
	if start.Hour() < r.openHour {
		return apperr.Validationf("bookings open at %02d:00", r.openHour)
	}
	if end.Hour() > r.closeHour || (end.Hour() == r.closeHour && (end.Minute() > 0 || end.Second() > 0)) {
		return apperr.Validationf("bookings close at %02d:00", r.closeHour)
	}

	return nil
}
