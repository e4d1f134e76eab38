package models

import "time"

// UserProfile stores the registration details collected at sign-up. The
// credentials themselves live in the external auth service; SupabaseID links
// the profile to the auth-service user.
type UserProfile struct {
	ID          string    `db:"id" json:"id"`
	SupabaseID  string    `db:"supabase_id" json:"supabase_id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	Email       string    `db:"email" json:"email"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
