package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type fixedCategories []models.Category

func (f fixedCategories) ListAll(ctx context.Context, byName bool) ([]models.Category, error) {
	return f, nil
}

type fixedDepartments []models.Department

func (f fixedDepartments) ListAll(ctx context.Context) ([]models.Department, error) { return f, nil }

type fixedYears []models.Year

func (f fixedYears) ListAll(ctx context.Context) ([]models.Year, error) { return f, nil }

type fixedSemesters []models.Semester

func (f fixedSemesters) ListAll(ctx context.Context) ([]models.Semester, error) { return f, nil }

type fixedSubjects []models.Subject

func (f fixedSubjects) ListAll(ctx context.Context) ([]models.Subject, error) { return f, nil }

func newTestHierarchyService() *HierarchyService {
	return NewHierarchyService(HierarchyRepositories{
		Categories: fixedCategories{{ID: 1, Name: "Engineering"}, {ID: 2, Name: "Medical"}},
		Departments: fixedDepartments{
			{ID: 10, Name: "CSE", CategoryID: 1},
			{ID: 11, Name: "ECE", CategoryID: 1},
			{ID: 20, Name: "MBBS", CategoryID: 2},
		},
		Years: fixedYears{
			{ID: 100, YearNumber: 1, DepartmentID: 10},
			{ID: 101, YearNumber: 2, DepartmentID: 10},
			{ID: 110, YearNumber: 1, DepartmentID: 11},
		},
		Semesters: fixedSemesters{
			{ID: 1000, SemesterNumber: 1, YearID: 100},
			{ID: 1001, SemesterNumber: 2, YearID: 100},
			{ID: 1010, SemesterNumber: 3, YearID: 101},
		},
		Subjects: fixedSubjects{
			{ID: 5000, Code: "CS101", SemesterID: 1000},
			{ID: 5001, Code: "CS102", SemesterID: 1001},
		},
	}, zap.NewNop())
}

func TestHierarchyServiceOptionsUnfiltered(t *testing.T) {
	opts, err := newTestHierarchyService().Options(context.Background(), models.HierarchySelection{})
	require.NoError(t, err)
	assert.Len(t, opts.Categories, 2)
	assert.Len(t, opts.Departments, 3)
	assert.Len(t, opts.Years, 3)
	assert.Len(t, opts.Semesters, 3)
	assert.Len(t, opts.Subjects, 2)
}

func TestHierarchyServiceOptionsCascade(t *testing.T) {
	opts, err := newTestHierarchyService().Options(context.Background(), models.HierarchySelection{
		CategoryID:   int64Ptr(1),
		DepartmentID: int64Ptr(10),
		YearID:       int64Ptr(100),
	})
	require.NoError(t, err)

	assert.Len(t, opts.Categories, 2)
	require.Len(t, opts.Departments, 2)
	assert.Equal(t, int64(10), opts.Departments[0].ID)
	require.Len(t, opts.Years, 2)
	require.Len(t, opts.Semesters, 2)
	assert.Equal(t, int64(1000), opts.Semesters[0].ID)
	assert.Len(t, opts.Subjects, 2)
}

func TestHierarchyServiceOptionsRejectsMismatch(t *testing.T) {
	svc := newTestHierarchyService()

	_, err := svc.Options(context.Background(), models.HierarchySelection{CategoryID: int64Ptr(2), DepartmentID: int64Ptr(10)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrHierarchyMismatch.Message, appErrors.FromError(err).Message)

	_, err = svc.Options(context.Background(), models.HierarchySelection{YearID: int64Ptr(110), SemesterID: int64Ptr(1000)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrHierarchyMismatch.Message, appErrors.FromError(err).Message)
}

func TestHierarchyServiceOptionsUnknownSelection(t *testing.T) {
	_, err := newTestHierarchyService().Options(context.Background(), models.HierarchySelection{DepartmentID: int64Ptr(999)})
	require.Error(t, err)
	assert.Equal(t, "department not found", appErrors.FromError(err).Message)
}

func TestHierarchyServiceOptionsChecksSkippedLevels(t *testing.T) {
	svc := newTestHierarchyService()

	cases := []struct {
		name string
		sel  models.HierarchySelection
	}{
		{name: "year outside category", sel: models.HierarchySelection{CategoryID: int64Ptr(2), YearID: int64Ptr(100)}},
		{name: "semester outside department", sel: models.HierarchySelection{DepartmentID: int64Ptr(11), SemesterID: int64Ptr(1000)}},
		{name: "semester outside category", sel: models.HierarchySelection{CategoryID: int64Ptr(2), SemesterID: int64Ptr(1010)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Options(context.Background(), tc.sel)
			require.Error(t, err)
			assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
			assert.Equal(t, appErrors.ErrHierarchyMismatch.Message, appErrors.FromError(err).Message)
		})
	}
}

func TestHierarchyServiceOptionsFiltersByNearestSelection(t *testing.T) {
	opts, err := newTestHierarchyService().Options(context.Background(), models.HierarchySelection{CategoryID: int64Ptr(1)})
	require.NoError(t, err)
	assert.Len(t, opts.Departments, 2)
	assert.Len(t, opts.Years, 3)

	opts, err = newTestHierarchyService().Options(context.Background(), models.HierarchySelection{DepartmentID: int64Ptr(11)})
	require.NoError(t, err)
	require.Len(t, opts.Years, 1)
	assert.Equal(t, int64(110), opts.Years[0].ID)
	assert.Empty(t, opts.Semesters)
	assert.Empty(t, opts.Subjects)

	opts, err = newTestHierarchyService().Options(context.Background(), models.HierarchySelection{CategoryID: int64Ptr(2)})
	require.NoError(t, err)
	require.Len(t, opts.Departments, 1)
	assert.Empty(t, opts.Years)
	assert.Empty(t, opts.Semesters)
}
