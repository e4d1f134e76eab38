package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/pe4924/ReserveEase/pkg/errors"
	"github.com/pe4924/ReserveEase/pkg/storage"
)

type rendererStub struct {
	payload []byte
	err     error
}

func (r *rendererStub) Export(ctx context.Context, format string) ([]byte, string, error) {
	if r.err != nil {
		return nil, "", r.err
	}
	return r.payload, "text/csv", nil
}

func newArchiveService(t *testing.T, renderer exportRenderer) *ArchiveService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	return NewArchiveService(renderer, store, signer, time.Hour, nil)
}

func TestArchiveServiceSnapshotRoundTrip(t *testing.T) {
	svc := newArchiveService(t, &rendererStub{payload: []byte("id,title\n1,予約あり\n")})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	token, expiresAt, err := svc.RequestSnapshot("csv")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	// The snapshot is written asynchronously.
	require.Eventually(t, func() bool {
		file, _, err := svc.Open(token)
		if err != nil {
			return false
		}
		file.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	file, contentType, err := svc.Open(token)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, "text/csv", contentType)
}

func TestArchiveServiceRejectsUnknownFormat(t *testing.T) {
	svc := newArchiveService(t, &rendererStub{})

	_, _, err := svc.RequestSnapshot("xlsx")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestArchiveServiceSnapshotNotReady(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	svc := NewArchiveService(&rendererStub{}, store, signer, time.Hour, nil)

	token, _, err := signer.Generate("snap-1", "2026/08/reservations-missing.csv")
	require.NoError(t, err)

	_, _, err = svc.Open(token)

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestArchiveServiceRejectsForgedToken(t *testing.T) {
	svc := newArchiveService(t, &rendererStub{})

	_, _, err := svc.Open("snap.123.cGF0aA.deadbeef")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
