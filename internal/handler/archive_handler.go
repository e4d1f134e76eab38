package handler

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/pe4924/ReserveEase/pkg/errors"
	"github.com/pe4924/ReserveEase/pkg/response"
)

type archiveService interface {
	RequestSnapshot(format string) (string, time.Time, error)
	Open(token string) (*os.File, string, error)
}

// ArchiveHandler handles export snapshot tickets and downloads.
type ArchiveHandler struct {
	service archiveService
}

// NewArchiveHandler creates a new archive handler.
func NewArchiveHandler(svc archiveService) *ArchiveHandler {
	return &ArchiveHandler{service: svc}
}

// Snapshot godoc
// @Summary Request an export snapshot
// @Description Enqueues a snapshot of the reservation list and returns a signed download token
// @Tags Reservations
// @Produce json
// @Param format query string false "csv or pdf" default(csv)
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /export/archive [post]
func (h *ArchiveHandler) Snapshot(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	token, expiresAt, err := h.service.RequestSnapshot(format)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusAccepted, gin.H{
		"token":      token,
		"expires_at": expiresAt.UTC(),
	})
}

// Download godoc
// @Summary Download an export snapshot
// @Description Streams a previously requested snapshot; 404 until the snapshot job has run
// @Tags Reservations
// @Produce text/csv
// @Produce application/pdf
// @Param token path string true "Signed snapshot token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /export/archive/{token} [get]
func (h *ArchiveHandler) Download(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token required"))
		return
	}

	file, contentType, err := h.service.Open(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}
