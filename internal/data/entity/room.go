package entity

import "time"

// Room is owned by an external admin surface. The booking core only reads
// it and takes its row lock during conflict resolution.
type Room struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Available bool      `db:"available"`
	Version   int       `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
