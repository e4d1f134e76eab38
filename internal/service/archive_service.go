package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/pe4924/ReserveEase/pkg/errors"
	"github.com/pe4924/ReserveEase/pkg/jobs"
	"github.com/pe4924/ReserveEase/pkg/storage"
)

type exportRenderer interface {
	Export(ctx context.Context, format string) ([]byte, string, error)
}

type snapshotPayload struct {
	Format string
	Path   string
}

// ArchiveService writes reservation export snapshots to disk in the
// background and hands out signed download tokens. A token is issued
// immediately; the file appears once the snapshot job has run.
type ArchiveService struct {
	renderer exportRenderer
	storage  *storage.LocalStorage
	signer   *storage.SignedURLSigner
	queue    *jobs.Queue[snapshotPayload]
	ttl      time.Duration
	logger   *zap.Logger
}

// NewArchiveService constructs the archive service.
func NewArchiveService(renderer exportRenderer, store *storage.LocalStorage, signer *storage.SignedURLSigner, ttl time.Duration, logger *zap.Logger) *ArchiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s := &ArchiveService{
		renderer: renderer,
		storage:  store,
		signer:   signer,
		ttl:      ttl,
		logger:   logger,
	}
	s.queue = jobs.NewQueue("export-archive", s.handle, jobs.QueueConfig{
		Workers: 1,
		Logger:  logger,
	})
	return s
}

// Start launches the snapshot workers.
func (s *ArchiveService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the snapshot workers.
func (s *ArchiveService) Stop() {
	s.queue.Stop()
}

// RequestSnapshot enqueues a snapshot of the reservation list and returns a
// signed token the caller can redeem once the file is written.
func (s *ArchiveService) RequestSnapshot(format string) (string, time.Time, error) {
	if format != "csv" && format != "pdf" {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	id := uuid.NewString()
	path := fmt.Sprintf("%s/reservations-%s.%s", time.Now().Format("2006/01"), id, format)

	token, expiresAt, err := s.signer.Generate(id, path)
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign snapshot token")
	}

	if err := s.queue.Enqueue(jobs.Job[snapshotPayload]{
		ID:      id,
		Payload: snapshotPayload{Format: format, Path: path},
	}); err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "snapshot queue unavailable")
	}

	return token, expiresAt, nil
}

// Open redeems a token and returns the snapshot file together with its
// content type. A valid token for a file not yet written reports not found.
func (s *ArchiveService) Open(token string) (*os.File, string, error) {
	_, path, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid snapshot token")
	}

	file, err := s.storage.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "snapshot not ready")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open snapshot")
	}

	contentType := "text/csv"
	if strings.HasSuffix(path, ".pdf") {
		contentType = "application/pdf"
	}
	return file, contentType, nil
}

func (s *ArchiveService) handle(ctx context.Context, job jobs.Job[snapshotPayload]) error {
	data, _, err := s.renderer.Export(ctx, job.Payload.Format)
	if err != nil {
		return err
	}
	if _, err := s.storage.Save(job.Payload.Path, data); err != nil {
		return err
	}

	s.logger.Info("snapshot written", zap.String("job_id", job.ID), zap.String("path", job.Payload.Path))

	if deleted, err := s.storage.CleanupOlderThan(s.ttl); err != nil {
		s.logger.Warn("snapshot cleanup failed", zap.Error(err))
	} else if len(deleted) > 0 {
		s.logger.Info("expired snapshots removed", zap.Int("count", len(deleted)))
	}

	return nil
}
