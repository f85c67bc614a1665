package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
	"github.com/noah-isme/studyhub-api/pkg/response"
	"github.com/noah-isme/studyhub-api/pkg/storage"
)

type blobOpener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// FileHandler streams stored PDFs for the local storage driver.
type FileHandler struct {
	store  blobOpener
	logger *zap.Logger
}

// NewFileHandler constructs a file handler.
func NewFileHandler(store blobOpener, logger *zap.Logger) *FileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileHandler{store: store, logger: logger}
}

// Serve godoc
// @Summary Download a stored file
// @Tags Files
// @Produce application/pdf
// @Param key path string true "Storage key"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /files/{key} [get]
func (h *FileHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	body, err := h.store.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "file not found"))
			return
		}
		h.logger.Error("failed to open stored file", zap.String("key", key), zap.Error(err))
		response.Error(c, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to read file"))
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", `inline; filename="`+path.Base(key)+`"`)
	c.DataFromReader(http.StatusOK, -1, "application/pdf", body, nil)
}
