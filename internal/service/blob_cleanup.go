package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/models"
	"github.com/noah-isme/studyhub-api/pkg/jobs"
	"github.com/noah-isme/studyhub-api/pkg/storage"
)

// BlobDeleteJob is the queue job type that removes a stored object.
const BlobDeleteJob = "blob.delete"

type blobQueue interface {
	Enqueue(job jobs.Job) error
}

type storageKeyRepository interface {
	DescendantStorageKeys(ctx context.Context, level models.Level, id int64) ([]string, error)
}

// BlobCleaner schedules removal of blobs whose rows are gone.
type BlobCleaner struct {
	queue  blobQueue
	keys   storageKeyRepository
	logger *zap.Logger
}

// NewBlobCleaner constructs a cleaner on top of the job queue.
func NewBlobCleaner(queue blobQueue, keys storageKeyRepository, logger *zap.Logger) *BlobCleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlobCleaner{queue: queue, keys: keys, logger: logger}
}

// Schedule enqueues a delete job per non-empty key. Enqueue failures are logged;
// the row is already gone so the caller's request still succeeds.
func (c *BlobCleaner) Schedule(keys ...string) {
	if c == nil || c.queue == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := c.queue.Enqueue(jobs.Job{Type: BlobDeleteJob, Payload: key}); err != nil {
			c.logger.Warn("failed to enqueue blob delete", zap.String("key", key), zap.Error(err))
		}
	}
}

// Descendants returns the blob keys a cascading delete of the node would orphan.
func (c *BlobCleaner) Descendants(ctx context.Context, level models.Level, id int64) []string {
	if c == nil || c.keys == nil {
		return nil
	}
	keys, err := c.keys.DescendantStorageKeys(ctx, level, id)
	if err != nil {
		c.logger.Warn("failed to collect descendant blobs", zap.String("level", string(level)), zap.Int64("id", id), zap.Error(err))
		return nil
	}
	return keys
}

// NewBlobDeleteHandler returns the queue handler deleting blobs from store.
// Objects that are already gone count as deleted.
func NewBlobDeleteHandler(store storage.BlobStore, metrics *MetricsService, logger *zap.Logger) jobs.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, job jobs.Job) error {
		key, ok := job.Payload.(string)
		if !ok || key == "" {
			metrics.RecordBlobCleanup("invalid")
			return fmt.Errorf("blob delete job %s: payload is not a storage key", job.ID)
		}

		err := store.Delete(ctx, key)
		switch {
		case err == nil:
			metrics.RecordBlobCleanup("deleted")
			logger.Debug("blob deleted", zap.String("key", key), zap.Int("attempt", job.Attempt))
			return nil
		case errors.Is(err, storage.ErrNotFound):
			metrics.RecordBlobCleanup("missing")
			return nil
		default:
			metrics.RecordBlobCleanup("failed")
			return fmt.Errorf("delete blob %s: %w", key, err)
		}
	}
}
