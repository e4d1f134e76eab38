package service

import (
	"context"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pe4924/ReserveEase/internal/models"
	"github.com/pe4924/ReserveEase/internal/schedule"
	appErrors "github.com/pe4924/ReserveEase/pkg/errors"
	"github.com/pe4924/ReserveEase/pkg/export"
)

const listCacheKey = "reservations:list"

// defaultTitle matches what the calendar client has always submitted.
const defaultTitle = "予約あり"

type reservationRepository interface {
	List(ctx context.Context) ([]models.Reservation, error)
	Create(ctx context.Context, reservation *models.Reservation) error
}

type listCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ReservationService manages the reservation list and creation.
type ReservationService struct {
	repo      reservationRepository
	cache     listCache
	cacheTTL  time.Duration
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewReservationService constructs the service. The cache is optional.
func NewReservationService(repo reservationRepository, cache listCache, cacheTTL time.Duration, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *ReservationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ReservationService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, metrics: metrics, logger: logger}
}

// CreateReservationRequest is the create payload.
type CreateReservationRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// List returns the full reservation set, served from cache when possible.
func (s *ReservationService) List(ctx context.Context) ([]models.Reservation, error) {
	if s.cache != nil {
		var cached []models.Reservation
		start := time.Now()
		err := s.cache.Get(ctx, listCacheKey, &cached)
		if err == nil {
			s.observeCache(true, time.Since(start))
			return cached, nil
		}
		s.observeCache(false, time.Since(start))
		if appErrors.FromError(err).Code != appErrors.ErrCacheMiss.Code {
			s.logger.Warn("reservation cache read failed", zap.Error(err))
		}
	}

	reservations, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reservations")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, listCacheKey, reservations, s.cacheTTL); err != nil {
			s.logger.Warn("reservation cache write failed", zap.Error(err))
		}
	}

	return reservations, nil
}

// Create validates and stores a reservation, then invalidates the cached
// list so the next fetch reflects it.
func (s *ReservationService) Create(ctx context.Context, req CreateReservationRequest) (*models.Reservation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reservation payload")
	}

	start, err := schedule.ParseTimestamp(req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid start_date")
	}
	end, err := schedule.ParseTimestamp(req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid end_date")
	}
	if !start.Before(end) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be before end_date")
	}

	title := req.Title
	if title == "" {
		title = defaultTitle
	}

	reservation := &models.Reservation{
		Title:       title,
		StartDate:   start,
		EndDate:     end,
		Description: req.Description,
		UserID:      req.UserID,
	}
	if err := s.repo.Create(ctx, reservation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create reservation")
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, listCacheKey); err != nil {
			s.logger.Warn("reservation cache invalidation failed", zap.Error(err))
		}
	}

	return reservation, nil
}

// Export renders the reservation list as CSV or PDF and returns the bytes
// along with the content type.
func (s *ReservationService) Export(ctx context.Context, format string) ([]byte, string, error) {
	reservations, err := s.List(ctx)
	if err != nil {
		return nil, "", err
	}

	table := export.Table{
		Headers: []string{"ID", "Title", "Start (JST)", "End (JST)", "Name"},
	}
	for _, r := range reservations {
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Title,
			schedule.FormatJST(r.StartDate),
			schedule.FormatJST(r.EndDate),
			r.LastName,
		})
	}

	switch format {
	case "csv", "":
		payload, err := export.NewCSVExporter().Render(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "csv export failed")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := export.NewPDFExporter().Render(table, "Reservations")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "pdf export failed")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func (s *ReservationService) observeCache(hit bool, duration time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(hit, duration)
	}
}
