package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pe4924/ReserveEase/internal/models"
)

// UserRepository persists user profiles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a user repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a profile, generating its ID.
func (r *UserRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO user_profiles (id, supabase_id, first_name, last_name, email, phone_number, created_at)
VALUES (:id, :supabase_id, :first_name, :last_name, :email, :phone_number, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("create user profile: %w", err)
	}
	return nil
}

// FindBySupabaseID fetches the profile linked to an auth-service user.
func (r *UserRepository) FindBySupabaseID(ctx context.Context, supabaseID string) (*models.UserProfile, error) {
	const query = `SELECT id, supabase_id, first_name, last_name, email, phone_number, created_at
FROM user_profiles WHERE supabase_id = $1 LIMIT 1`

	var profile models.UserProfile
	if err := r.db.GetContext(ctx, &profile, query, supabaseID); err != nil {
		return nil, err
	}
	return &profile, nil
}
