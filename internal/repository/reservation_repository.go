package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pe4924/ReserveEase/internal/models"
)

// ReservationRepository persists reservations.
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository constructs a reservation repository.
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// List returns every reservation with the owner's last name joined in.
func (r *ReservationRepository) List(ctx context.Context) ([]models.Reservation, error) {
	const query = `SELECT r.id, r.title, r.start_date, r.end_date, COALESCE(r.description, '') AS description, r.user_id, COALESCE(u.last_name, '') AS last_name, r.created_at
FROM reservations r
LEFT JOIN user_profiles u ON u.supabase_id = r.user_id
ORDER BY r.start_date ASC, r.id ASC`

	reservations := []models.Reservation{}
	if err := r.db.SelectContext(ctx, &reservations, query); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return reservations, nil
}

// Create inserts a reservation and fills in the generated ID.
func (r *ReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	if reservation.CreatedAt.IsZero() {
		reservation.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO reservations (title, start_date, end_date, description, user_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.GetContext(ctx, &reservation.ID, query,
		reservation.Title,
		reservation.StartDate,
		reservation.EndDate,
		reservation.Description,
		reservation.UserID,
		reservation.CreatedAt,
	); err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}
