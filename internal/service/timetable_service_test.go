package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type mockTimetableRepo struct {
	items     map[int64]*models.Timetable
	createErr error
	nextID    int64
}

func (m *mockTimetableRepo) List(ctx context.Context, filter models.DocumentFilter) ([]models.Timetable, int, error) {
	return nil, 0, nil
}

func (m *mockTimetableRepo) FindByID(ctx context.Context, id int64) (*models.Timetable, error) {
	if item, ok := m.items[id]; ok {
		cp := *item
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTimetableRepo) Create(ctx context.Context, timetable *models.Timetable) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.items == nil {
		m.items = make(map[int64]*models.Timetable)
	}
	m.nextID++
	timetable.ID = m.nextID
	cp := *timetable
	m.items[timetable.ID] = &cp
	return nil
}

func (m *mockTimetableRepo) Delete(ctx context.Context, id int64) (string, error) {
	item, ok := m.items[id]
	if !ok {
		return "", sql.ErrNoRows
	}
	delete(m.items, id)
	return item.StorageKey, nil
}

func TestTimetableServiceCreateWithoutSemester(t *testing.T) {
	store := newMemoryBlobStore()
	repo := &mockTimetableRepo{}
	svc := NewTimetableService(repo, dataStructuresLineage(), newTestUploader(store, 0), nil, nil, zap.NewNop())

	timetable, err := svc.Create(context.Background(), CreateTimetableRequest{Title: "Spring Week Plan"}, pdfUpload("Week Plan.pdf"))
	require.NoError(t, err)

	assert.Nil(t, timetable.SemesterID)
	assert.True(t, strings.HasPrefix(timetable.StorageKey, "timetable-"), timetable.StorageKey)
	assert.True(t, strings.HasSuffix(timetable.StorageKey, ".pdf"), timetable.StorageKey)
	assert.Equal(t, samplePDF, store.objects[timetable.StorageKey])
}

func TestTimetableServiceCreateDiscardsBlobWhenInsertFails(t *testing.T) {
	store := newMemoryBlobStore()
	repo := &mockTimetableRepo{createErr: errors.New("connection reset")}
	svc := NewTimetableService(repo, dataStructuresLineage(), newTestUploader(store, 0), nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateTimetableRequest{Title: "Week Plan", SemesterID: int64Ptr(4)}, pdfUpload("plan.pdf"))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
	assert.Empty(t, store.objects)
	assert.Len(t, store.deleted, 1)
}

func TestTimetableServiceCreateUnknownSemester(t *testing.T) {
	store := newMemoryBlobStore()
	repo := &mockTimetableRepo{}
	svc := NewTimetableService(repo, dataStructuresLineage(), newTestUploader(store, 0), nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateTimetableRequest{Title: "Week Plan", SemesterID: int64Ptr(99)}, pdfUpload("plan.pdf"))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, store.objects)
	assert.Empty(t, repo.items)
}
