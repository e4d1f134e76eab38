package models

import "time"

// Reservation is a stored time-slot reservation. LastName is joined in from
// the owner's profile so the list payload can carry the display name.
type Reservation struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	StartDate   time.Time `db:"start_date" json:"start_date"`
	EndDate     time.Time `db:"end_date" json:"end_date"`
	Description string    `db:"description" json:"description"`
	UserID      string    `db:"user_id" json:"user_id"`
	LastName    string    `db:"last_name" json:"last_name"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
}
