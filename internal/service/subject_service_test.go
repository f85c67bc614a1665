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
)

type mockSubjectRepo struct {
	items     map[int64]*models.Subject
	createErr error
	nextID    int64
}

func (m *mockSubjectRepo) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	return nil, 0, nil
}

func (m *mockSubjectRepo) FindByID(ctx context.Context, id int64) (*models.Subject, error) {
	if item, ok := m.items[id]; ok {
		cp := *item
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubjectRepo) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	for _, item := range m.items {
		if item.Code == code && item.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSubjectRepo) Create(ctx context.Context, subject *models.Subject) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.items == nil {
		m.items = make(map[int64]*models.Subject)
	}
	m.nextID++
	subject.ID = m.nextID
	cp := *subject
	m.items[subject.ID] = &cp
	return nil
}

func (m *mockSubjectRepo) Update(ctx context.Context, subject *models.Subject) error {
	cp := *subject
	m.items[subject.ID] = &cp
	return nil
}

func (m *mockSubjectRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func TestSubjectServiceCreateDerivesAncestors(t *testing.T) {
	repo := &mockSubjectRepo{}
	cacheRepo := &stubCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewSubjectService(repo, dataStructuresLineage(), cache, nil, nil, zap.NewNop())

	subject, err := svc.Create(context.Background(), CreateSubjectRequest{
		Code:       " cs301 ",
		Name:       "Operating Systems",
		SemesterID: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, "CS301", subject.Code)
	assert.Equal(t, int64(4), subject.SemesterID)
	assert.Equal(t, int64(3), subject.YearID)
	assert.Equal(t, int64(2), subject.DepartmentID)
	assert.Equal(t, int64(1), subject.CategoryID)
	assert.Equal(t, 3, subject.SemesterNumber)
	assert.Equal(t, 2, subject.YearNumber)
	assert.Equal(t, "Computer Science", subject.DepartmentName)
	assert.Equal(t, "CS301", repo.items[subject.ID].Code)
	assert.Equal(t, []string{BrowseCachePattern}, cacheRepo.invalidated)
}

func TestSubjectServiceCreateAcceptsMatchingAncestors(t *testing.T) {
	svc := NewSubjectService(&mockSubjectRepo{}, dataStructuresLineage(), nil, nil, nil, zap.NewNop())

	subject, err := svc.Create(context.Background(), CreateSubjectRequest{
		Code:         "CS302",
		Name:         "Databases",
		SemesterID:   4,
		CategoryID:   int64Ptr(1),
		DepartmentID: int64Ptr(2),
		YearID:       int64Ptr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), subject.DepartmentID)
}

func TestSubjectServiceCreateRejections(t *testing.T) {
	existing := map[int64]*models.Subject{11: {ID: 11, Code: "CS201", SemesterID: 4}}

	cases := []struct {
		name      string
		req       CreateSubjectRequest
		createErr error
		target    *appErrors.Error
	}{
		{
			name:   "ancestor mismatch",
			req:    CreateSubjectRequest{Code: "CS303", Name: "Networks", SemesterID: 4, DepartmentID: int64Ptr(5)},
			target: appErrors.ErrHierarchyMismatch,
		},
		{
			name:   "category mismatch",
			req:    CreateSubjectRequest{Code: "CS303", Name: "Networks", SemesterID: 4, CategoryID: int64Ptr(9)},
			target: appErrors.ErrHierarchyMismatch,
		},
		{
			name:   "duplicate code in other case",
			req:    CreateSubjectRequest{Code: "cs201", Name: "Data Structures II", SemesterID: 4},
			target: appErrors.ErrConflict,
		},
		{
			name:      "unique violation on insert",
			req:       CreateSubjectRequest{Code: "CS304", Name: "Compilers", SemesterID: 4},
			createErr: &pq.Error{Code: "23505"},
			target:    appErrors.ErrConflict,
		},
		{
			name:   "unknown semester",
			req:    CreateSubjectRequest{Code: "CS305", Name: "Graphics", SemesterID: 99},
			target: appErrors.ErrValidation,
		},
		{
			name:   "missing code",
			req:    CreateSubjectRequest{Code: "   ", Name: "Graphics", SemesterID: 4},
			target: appErrors.ErrValidation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := make(map[int64]*models.Subject, len(existing))
			for id, item := range existing {
				cp := *item
				items[id] = &cp
			}
			repo := &mockSubjectRepo{items: items, createErr: tc.createErr, nextID: 11}
			svc := NewSubjectService(repo, dataStructuresLineage(), nil, nil, nil, zap.NewNop())

			_, err := svc.Create(context.Background(), tc.req)
			require.Error(t, err)
			assert.True(t, appErrors.Is(err, tc.target), err.Error())
			assert.Len(t, repo.items, 1)
		})
	}
}

func TestSubjectServiceCreateConflictStatus(t *testing.T) {
	repo := &mockSubjectRepo{items: map[int64]*models.Subject{11: {ID: 11, Code: "CS201"}}}
	svc := NewSubjectService(repo, dataStructuresLineage(), nil, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateSubjectRequest{Code: "cs201", Name: "Duplicate", SemesterID: 4})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "subject code already exists", appErr.Message)
}
