package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/pe4924/ReserveEase/internal/models"
	"github.com/pe4924/ReserveEase/internal/service"
	appErrors "github.com/pe4924/ReserveEase/pkg/errors"
	"github.com/pe4924/ReserveEase/pkg/response"
)

type userService interface {
	Register(ctx context.Context, req service.RegisterUserRequest) (*models.UserProfile, error)
}

// UserHandler handles profile registration.
type UserHandler struct {
	service userService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{service: svc}
}

// Register godoc
// @Summary Register user profile
// @Description Stores the profile collected during sign-up
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.RegisterUserRequest true "Profile"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /register-user-info [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req service.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		registerFailure(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	profile, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		registerFailure(c, err)
		return
	}

	response.Created(c, profile)
}

// registerFailure keeps the flat {"message": ...} failure body the sign-up
// clients parse on this endpoint.
func registerFailure(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, gin.H{"message": appErr.Message})
}
