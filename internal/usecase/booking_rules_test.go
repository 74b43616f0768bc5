package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"room-booking/internal/apperr"
	"room-booking/pkg/utils"
)

type fakeHolidayRepo struct {
	dates map[string]bool
	err   error
}

func (f *fakeHolidayRepo) ExistsOnDate(ctx context.Context, date time.Time) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.dates[date.Format("2006-01-02")], nil
}

func testBookingConfig() utils.BookingConfig {
	return utils.BookingConfig{
		OpenHour:          7,
		CloseHour:         22,
		DailyQuotaMinutes: 540,
		LockTimeout:       5 * time.Second,
		Timezone:          "UTC",
	}
}

// 2025-06-02 is a Monday, 2025-06-07 a Saturday, 2025-06-08 a Sunday.
func newTestRules(holidays *fakeHolidayRepo) *admissionRules {
	rules := newAdmissionRules(testBookingConfig(), time.UTC, holidays)
	rules.now = func() time.Time {
		return time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)
	}
	return rules
}

func at(day int, hour, min int) time.Time {
	return time.Date(2025, 6, day, hour, min, 0, 0, time.UTC)
}

func TestAdmissionRules_Check(t *testing.T) {
	holidays := &fakeHolidayRepo{dates: map[string]bool{"2025-06-05": true}}
	rules := newTestRules(holidays)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr string
	}{
		{
			name:  "valid weekday booking",
			start: at(2, 9, 0),
			end:   at(2, 10, 0),
		},
		{
			name:  "ends exactly at close",
			start: at(2, 21, 0),
			end:   at(2, 22, 0),
		},
		{
			name:  "starts exactly at open",
			start: at(2, 7, 0),
			end:   at(2, 8, 0),
		},
		{
			name:    "zero duration",
			start:   at(2, 9, 0),
			end:     at(2, 9, 0),
			wantErr: "end time must be after start time",
		},
		{
			name:    "negative duration",
			start:   at(2, 10, 0),
			end:     at(2, 9, 0),
			wantErr: "end time must be after start time",
		},
		{
			name:    "start in the past",
			start:   at(2, 5, 0),
			end:     at(2, 5, 30),
			wantErr: "start time is in the past",
		},
		{
			name:    "spans midnight",
			start:   at(2, 21, 0),
			end:     at(3, 9, 0),
			wantErr: "booking cannot span multiple days",
		},
		{
			name:    "saturday",
			start:   at(7, 9, 0),
			end:     at(7, 10, 0),
			wantErr: "bookings are not accepted on weekends",
		},
		{
			name:    "sunday",
			start:   at(8, 9, 0),
			end:     at(8, 10, 0),
			wantErr: "bookings are not accepted on weekends",
		},
		{
			name:    "holiday",
			start:   at(5, 9, 0),
			end:     at(5, 10, 0),
			wantErr: "2025-06-05 is a holiday",
		},
		{
			name:    "before opening",
			start:   at(2, 6, 30),
			end:     at(2, 7, 30),
			wantErr: "bookings open at 07:00",
		},
		{
			name:    "past closing",
			start:   at(2, 21, 30),
			end:     at(2, 22, 30),
			wantErr: "bookings close at 22:00",
		},
		{
			name:    "one minute past closing",
			start:   at(2, 21, 0),
			end:     at(2, 22, 1),
			wantErr: "bookings close at 22:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rules.Check(context.Background(), tt.start, tt.end)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.wantErr)
			}
			if err.Error() != tt.wantErr {
				t.Fatalf("expected error %q, got %q", tt.wantErr, err.Error())
			}
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Fatalf("expected validation kind, got %s", apperr.KindOf(err))
			}
		})
	}
}

// A request violating several rules fails on the earliest one.
func TestAdmissionRules_CheckOrder(t *testing.T) {
	rules := newTestRules(&fakeHolidayRepo{})

	// Saturday, before opening, but in the past: the past check wins
	err := rules.Check(context.Background(), at(7, 5, 0).AddDate(0, 0, -7), at(7, 6, 0).AddDate(0, 0, -7))
	if err == nil || err.Error() != "start time is in the past" {
		t.Fatalf("expected past-start error, got %v", err)
	}

	// Weekend and outside hours: the weekend check wins
	err = rules.Check(context.Background(), at(7, 5, 0), at(7, 6, 0))
	if err == nil || err.Error() != "bookings are not accepted on weekends" {
		t.Fatalf("expected weekend error, got %v", err)
	}
}

func TestAdmissionRules_HolidayLookupFailure(t *testing.T) {
	lookupErr := errors.New("connection refused")
	rules := newTestRules(&fakeHolidayRepo{err: lookupErr})

	err := rules.Check(context.Background(), at(2, 9, 0), at(2, 10, 0))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, lookupErr) {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}
	// Infrastructure failures must not surface as validation rejections
	if apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("lookup failure must not be a validation error")
	}
}
