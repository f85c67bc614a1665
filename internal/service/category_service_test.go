package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
	"github.com/noah-isme/studyhub-api/pkg/jobs"
)

type mockCategoryRepo struct {
	items     map[int64]*models.Category
	createErr error
	deleted   []int64
	nextID    int64
}

func (m *mockCategoryRepo) List(ctx context.Context, filter models.CategoryFilter) ([]models.Category, int, error) {
	out := make([]models.Category, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	if c, ok := m.items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.items == nil {
		m.items = make(map[int64]*models.Category)
	}
	m.nextID++
	category.ID = m.nextID
	category.CreatedAt = time.Now()
	cp := *category
	m.items[category.ID] = &cp
	return nil
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	if _, ok := m.items[category.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *category
	m.items[category.ID] = &cp
	return nil
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type stubCacheRepo struct {
	data        map[string]interface{}
	invalidated []string
}

func (s *stubCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (s *stubCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.data == nil {
		s.data = make(map[string]interface{})
	}
	s.data[key] = value
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	s.invalidated = append(s.invalidated, pattern)
	return nil
}

type recordingQueue struct {
	jobs []jobs.Job
}

func (q *recordingQueue) Enqueue(job jobs.Job) error {
	q.jobs = append(q.jobs, job)
	return nil
}

type stubStorageKeys struct {
	keys  []string
	calls []models.Level
}

func (s *stubStorageKeys) DescendantStorageKeys(ctx context.Context, level models.Level, id int64) ([]string, error) {
	s.calls = append(s.calls, level)
	return s.keys, nil
}

func TestCategoryServiceCreate(t *testing.T) {
	repo := &mockCategoryRepo{}
	cacheRepo := &stubCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewCategoryService(repo, cache, nil, nil, zap.NewNop())

	category, err := svc.Create(context.Background(), CategoryRequest{Name: "  Engineering ", Description: "B.Tech programs"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), category.ID)
	assert.Equal(t, "Engineering", category.Name)
	assert.Equal(t, []string{BrowseCachePattern}, cacheRepo.invalidated)

	items, pagination, err := svc.List(context.Background(), models.CategoryFilter{})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, 1, pagination.Page)
}

func TestCategoryServiceCreateValidation(t *testing.T) {
	svc := NewCategoryService(&mockCategoryRepo{}, nil, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CategoryRequest{Name: "   "})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestCategoryServiceCreateDuplicate(t *testing.T) {
	repo := &mockCategoryRepo{createErr: &pq.Error{Code: "23505"}}
	svc := NewCategoryService(repo, nil, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CategoryRequest{Name: "Engineering"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestCategoryServiceGetNotFound(t *testing.T) {
	svc := NewCategoryService(&mockCategoryRepo{}, nil, nil, nil, zap.NewNop())

	_, err := svc.Get(context.Background(), 42)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestCategoryServiceDeleteSchedulesDescendantBlobs(t *testing.T) {
	repo := &mockCategoryRepo{items: map[int64]*models.Category{7: {ID: 7, Name: "Medical"}}}
	queue := &recordingQueue{}
	keys := &stubStorageKeys{keys: []string{"materials/medical/a.pdf", "exam-schedules/3/b.pdf"}}
	svc := NewCategoryService(repo, nil, NewBlobCleaner(queue, keys, zap.NewNop()), nil, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), 7))
	assert.Equal(t, []int64{7}, repo.deleted)
	assert.Equal(t, []models.Level{models.LevelCategory}, keys.calls)
	require.Len(t, queue.jobs, 2)
	assert.Equal(t, BlobDeleteJob, queue.jobs[0].Type)
	assert.Equal(t, "materials/medical/a.pdf", queue.jobs[0].Payload)
}

func TestCategoryServiceDeleteMissingSchedulesNothing(t *testing.T) {
	queue := &recordingQueue{}
	keys := &stubStorageKeys{keys: []string{"materials/x.pdf"}}
	svc := NewCategoryService(&mockCategoryRepo{}, nil, NewBlobCleaner(queue, keys, zap.NewNop()), nil, zap.NewNop())

	err := svc.Delete(context.Background(), 9)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.Empty(t, queue.jobs)
}
