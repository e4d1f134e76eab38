package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pe4924/ReserveEase/internal/models"
	appErrors "github.com/pe4924/ReserveEase/pkg/errors"
)

type userRepository interface {
	Create(ctx context.Context, profile *models.UserProfile) error
	FindBySupabaseID(ctx context.Context, supabaseID string) (*models.UserProfile, error)
}

// UserService handles profile registration for newly signed-up accounts.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// RegisterUserRequest is the profile payload collected at sign-up.
type RegisterUserRequest struct {
	SupabaseID  string `json:"supabase_id" validate:"required"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number"`
}

// Register stores the profile, rejecting duplicate registrations for the
// same auth-service user.
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*models.UserProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	existing, err := s.repo.FindBySupabaseID(ctx, req.SupabaseID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing profile")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "user already registered")
	}

	profile := &models.UserProfile{
		SupabaseID:  req.SupabaseID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store profile")
	}

	s.logger.Info("user profile registered", zap.String("supabase_id", profile.SupabaseID))
	return profile, nil
}
