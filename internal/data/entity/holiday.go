package entity

import "time"

type Holiday struct {
	Date time.Time `db:"holiday_date"`
	Name string    `db:"name"`
}
