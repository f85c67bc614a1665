package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/models"
	"github.com/noah-isme/studyhub-api/pkg/jobs"
)

type failingBlobStore struct {
	*memoryBlobStore
	err error
}

func (f *failingBlobStore) Delete(ctx context.Context, key string) error {
	return f.err
}

type failingQueue struct{}

func (failingQueue) Enqueue(job jobs.Job) error { return errors.New("queue full") }

type erroringStorageKeys struct{}

func (erroringStorageKeys) DescendantStorageKeys(ctx context.Context, level models.Level, id int64) ([]string, error) {
	return nil, errors.New("db down")
}

func TestBlobDeleteHandler(t *testing.T) {
	store := newMemoryBlobStore()
	store.objects["materials/a.pdf"] = samplePDF
	handler := NewBlobDeleteHandler(store, nil, zap.NewNop())

	require.NoError(t, handler(context.Background(), jobs.Job{Type: BlobDeleteJob, Payload: "materials/a.pdf"}))
	assert.Equal(t, []string{"materials/a.pdf"}, store.deleted)

	// already removed
	require.NoError(t, handler(context.Background(), jobs.Job{Type: BlobDeleteJob, Payload: "materials/a.pdf"}))

	assert.Error(t, handler(context.Background(), jobs.Job{Type: BlobDeleteJob, Payload: 42}))
	assert.Error(t, handler(context.Background(), jobs.Job{Type: BlobDeleteJob, Payload: ""}))
}

func TestBlobDeleteHandlerReturnsStoreErrors(t *testing.T) {
	store := &failingBlobStore{memoryBlobStore: newMemoryBlobStore(), err: errors.New("timeout")}
	handler := NewBlobDeleteHandler(store, nil, zap.NewNop())

	err := handler(context.Background(), jobs.Job{Type: BlobDeleteJob, Payload: "materials/b.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "materials/b.pdf")
}

func TestBlobCleanerSchedule(t *testing.T) {
	queue := &recordingQueue{}
	cleaner := NewBlobCleaner(queue, nil, zap.NewNop())

	cleaner.Schedule("", "a.pdf", "", "b.pdf")
	require.Len(t, queue.jobs, 2)
	assert.Equal(t, "b.pdf", queue.jobs[1].Payload)

	assert.NotPanics(t, func() { NewBlobCleaner(failingQueue{}, nil, nil).Schedule("c.pdf") })

	var nilCleaner *BlobCleaner
	assert.NotPanics(t, func() { nilCleaner.Schedule("d.pdf") })
	assert.Nil(t, nilCleaner.Descendants(context.Background(), models.LevelYear, 1))
}

func TestBlobCleanerDescendantsSwallowsErrors(t *testing.T) {
	cleaner := NewBlobCleaner(&recordingQueue{}, erroringStorageKeys{}, zap.NewNop())
	assert.Nil(t, cleaner.Descendants(context.Background(), models.LevelDepartment, 3))
}
