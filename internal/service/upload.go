package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
	"github.com/noah-isme/studyhub-api/pkg/storage"
)

const pdfMIME = "application/pdf"

// UploadFile is a file received with a multipart form.
type UploadFile struct {
	Name    string
	Size    int64
	Content io.ReadSeeker
}

// UploadPolicy limits which files are accepted.
type UploadPolicy struct {
	MaxSize      int64
	AllowedMIMEs []string
}

// Uploader checks incoming files and writes them to blob storage.
type Uploader struct {
	store   storage.BlobStore
	policy  UploadPolicy
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewUploader constructs an uploader. An empty MIME allow-list accepts PDFs only.
func NewUploader(store storage.BlobStore, policy UploadPolicy, metrics *MetricsService, logger *zap.Logger) *Uploader {
	if len(policy.AllowedMIMEs) == 0 {
		policy.AllowedMIMEs = []string{pdfMIME}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{store: store, policy: policy, metrics: metrics, logger: logger, now: time.Now}
}

// Now returns the clock used for storage key stamps.
func (u *Uploader) Now() time.Time {
	return u.now()
}

// Store validates file and puts it under key, returning the public URL.
func (u *Uploader) Store(ctx context.Context, kind, key string, file *UploadFile) (string, error) {
	if file.Size <= 0 {
		u.metrics.RecordUploadRejected(kind, "empty")
		return "", appErrors.Clone(appErrors.ErrValidation, "uploaded file is empty")
	}
	if u.policy.MaxSize > 0 && file.Size > u.policy.MaxSize {
		u.metrics.RecordUploadRejected(kind, "size")
		return "", appErrors.Clone(appErrors.ErrPayloadTooLarge, "file exceeds the upload size limit")
	}

	detected, err := mimetype.DetectReader(file.Content)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read uploaded file")
	}
	if !u.allowed(detected) {
		u.metrics.RecordUploadRejected(kind, "type")
		u.logger.Info("upload rejected", zap.String("kind", kind), zap.String("detected", detected.String()))
		return "", appErrors.Clone(appErrors.ErrUnsupportedMedia, "")
	}
	if _, err := file.Content.Seek(0, io.SeekStart); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to rewind uploaded file")
	}

	url, err := u.store.Put(ctx, key, file.Content, file.Size, pdfMIME)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to store file")
	}
	u.metrics.ObserveUpload(kind, file.Size)
	return url, nil
}

// Discard removes a blob written for a row that was never persisted.
func (u *Uploader) Discard(ctx context.Context, key string) {
	if err := u.store.Delete(context.WithoutCancel(ctx), key); err != nil {
		u.logger.Error("failed to remove orphaned upload", zap.String("key", key), zap.Error(err))
	}
}

func (u *Uploader) allowed(detected *mimetype.MIME) bool {
	for _, m := range u.policy.AllowedMIMEs {
		if detected.Is(strings.TrimSpace(m)) {
			return true
		}
	}
	return false
}
