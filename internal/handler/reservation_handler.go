package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pe4924/ReserveEase/internal/models"
	"github.com/pe4924/ReserveEase/internal/service"
	appErrors "github.com/pe4924/ReserveEase/pkg/errors"
	"github.com/pe4924/ReserveEase/pkg/response"
)

type reservationService interface {
	List(ctx context.Context) ([]models.Reservation, error)
	Create(ctx context.Context, req service.CreateReservationRequest) (*models.Reservation, error)
	Export(ctx context.Context, format string) ([]byte, string, error)
}

// ReservationHandler handles the reservation endpoints.
type ReservationHandler struct {
	service reservationService
}

// NewReservationHandler creates a new reservation handler.
func NewReservationHandler(svc reservationService) *ReservationHandler {
	return &ReservationHandler{service: svc}
}

// List godoc
// @Summary List reservations
// @Description Returns every reservation as a bare JSON array
// @Tags Reservations
// @Produce json
// @Success 200 {array} models.Reservation
// @Failure 500 {object} response.Envelope
// @Router / [get]
func (h *ReservationHandler) List(c *gin.Context) {
	reservations, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}

	// Calendar clients consume this as a plain array, not the envelope.
	response.Raw(c, http.StatusOK, reservations)
}

// Create godoc
// @Summary Create reservation
// @Description Stores a reservation for the authenticated user
// @Tags Reservations
// @Accept json
// @Produce json
// @Param payload body service.CreateReservationRequest true "Reservation"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /add-events [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	if req.UserID == "" {
		req.UserID = claims.UserID()
	}
	if req.UserID != claims.UserID() {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "cannot create reservations for another user"))
		return
	}

	reservation, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, reservation)
}

// Export godoc
// @Summary Export reservations
// @Description Downloads the reservation list as CSV or PDF. PDF output is limited to Latin-1 text; use CSV for Japanese content.
// @Tags Reservations
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /export [get]
func (h *ReservationHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	payload, contentType, err := h.service.Export(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := "reservations." + format
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}
