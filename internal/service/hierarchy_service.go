package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type categoryLister interface {
	ListAll(ctx context.Context, byName bool) ([]models.Category, error)
}

type departmentLister interface {
	ListAll(ctx context.Context) ([]models.Department, error)
}

type yearLister interface {
	ListAll(ctx context.Context) ([]models.Year, error)
}

type semesterLister interface {
	ListAll(ctx context.Context) ([]models.Semester, error)
}

type subjectLister interface {
	ListAll(ctx context.Context) ([]models.Subject, error)
}

// HierarchyRepositories groups the full-level listers used by the admin selectors.
type HierarchyRepositories struct {
	Categories  categoryLister
	Departments departmentLister
	Years       yearLister
	Semesters   semesterLister
	Subjects    subjectLister
}

// HierarchyService feeds the cascading category, department, year, semester
// and subject selectors of the admin upload forms.
type HierarchyService struct {
	repos  HierarchyRepositories
	logger *zap.Logger
}

// NewHierarchyService creates a hierarchy service.
func NewHierarchyService(repos HierarchyRepositories, logger *zap.Logger) *HierarchyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HierarchyService{repos: repos, logger: logger}
}

// Options loads all five levels concurrently and narrows each level to the
// descendants of its nearest selected ancestor. With no ancestor selected a level is unfiltered.
func (s *HierarchyService) Options(ctx context.Context, sel models.HierarchySelection) (*models.HierarchyOptions, error) {
	var all models.HierarchyOptions
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		all.Categories, err = s.repos.Categories.ListAll(gctx, true)
		return err
	})
	g.Go(func() (err error) {
		all.Departments, err = s.repos.Departments.ListAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		all.Years, err = s.repos.Years.ListAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		all.Semesters, err = s.repos.Semesters.ListAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		all.Subjects, err = s.repos.Subjects.ListAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load hierarchy")
	}

	ix := newLineageIndex(&all)
	if err := ix.check(&all, sel); err != nil {
		return nil, err
	}

	years := models.HierarchySelection{CategoryID: sel.CategoryID, DepartmentID: sel.DepartmentID}
	semesters := years
	semesters.YearID = sel.YearID

	return &models.HierarchyOptions{
		Categories:  all.Categories,
		Departments: filter(all.Departments, sel.CategoryID, func(d models.Department) int64 { return d.CategoryID }),
		Years:       under(all.Years, years, func(y models.Year) ancestry { return ix.year(y.ID) }),
		Semesters:   under(all.Semesters, semesters, func(s models.Semester) ancestry { return ix.semester(s.ID) }),
		Subjects:    under(all.Subjects, sel, func(s models.Subject) ancestry { return ix.semester(s.SemesterID) }),
	}, nil
}

// ancestry is a row's id together with the ids of every level above it.
// Levels below the row stay zero.
type ancestry struct {
	category   int64
	department int64
	year       int64
	semester   int64
}

// agrees reports whether every selector set in sel matches the same level of a.
func (a ancestry) agrees(sel models.HierarchySelection) bool {
	match := func(want *int64, got int64) bool { return want == nil || *want == got }
	return match(sel.CategoryID, a.category) &&
		match(sel.DepartmentID, a.department) &&
		match(sel.YearID, a.year) &&
		match(sel.SemesterID, a.semester)
}

// lineageIndex walks the loaded rows from any level up to its category.
type lineageIndex struct {
	departmentCategory map[int64]int64
	yearDepartment     map[int64]int64
	semesterYear       map[int64]int64
}

func newLineageIndex(all *models.HierarchyOptions) lineageIndex {
	ix := lineageIndex{
		departmentCategory: make(map[int64]int64, len(all.Departments)),
		yearDepartment:     make(map[int64]int64, len(all.Years)),
		semesterYear:       make(map[int64]int64, len(all.Semesters)),
	}
	for _, d := range all.Departments {
		ix.departmentCategory[d.ID] = d.CategoryID
	}
	for _, y := range all.Years {
		ix.yearDepartment[y.ID] = y.DepartmentID
	}
	for _, s := range all.Semesters {
		ix.semesterYear[s.ID] = s.YearID
	}
	return ix
}

func (ix lineageIndex) department(id int64) ancestry {
	return ancestry{category: ix.departmentCategory[id], department: id}
}

func (ix lineageIndex) year(id int64) ancestry {
	a := ix.department(ix.yearDepartment[id])
	a.year = id
	return a
}

func (ix lineageIndex) semester(id int64) ancestry {
	a := ix.year(ix.semesterYear[id])
	a.semester = id
	return a
}

// check verifies every selected id exists and sits under each selected ancestor,
// including ancestors several levels up when the selectors between them are unset.
func (ix lineageIndex) check(all *models.HierarchyOptions, sel models.HierarchySelection) error {
	if sel.CategoryID != nil && !contains(all.Categories, *sel.CategoryID, func(c models.Category) int64 { return c.ID }) {
		return appErrors.Clone(appErrors.ErrValidation, "category not found")
	}
	if sel.DepartmentID != nil {
		if _, ok := ix.departmentCategory[*sel.DepartmentID]; !ok {
			return appErrors.Clone(appErrors.ErrValidation, "department not found")
		}
		if !ix.department(*sel.DepartmentID).agrees(models.HierarchySelection{CategoryID: sel.CategoryID}) {
			return appErrors.Clone(appErrors.ErrHierarchyMismatch, "")
		}
	}
	if sel.YearID != nil {
		if _, ok := ix.yearDepartment[*sel.YearID]; !ok {
			return appErrors.Clone(appErrors.ErrValidation, "year not found")
		}
		if !ix.year(*sel.YearID).agrees(models.HierarchySelection{CategoryID: sel.CategoryID, DepartmentID: sel.DepartmentID}) {
			return appErrors.Clone(appErrors.ErrHierarchyMismatch, "")
		}
	}
	if sel.SemesterID != nil {
		if _, ok := ix.semesterYear[*sel.SemesterID]; !ok {
			return appErrors.Clone(appErrors.ErrValidation, "semester not found")
		}
		if !ix.semester(*sel.SemesterID).agrees(sel) {
			return appErrors.Clone(appErrors.ErrHierarchyMismatch, "")
		}
	}
	return nil
}

// under keeps the rows whose ancestry agrees with sel. An empty selection keeps every row.
func under[T any](rows []T, sel models.HierarchySelection, path func(T) ancestry) []T {
	if sel == (models.HierarchySelection{}) {
		return rows
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if path(row).agrees(sel) {
			out = append(out, row)
		}
	}
	return out
}

func filter[T any](rows []T, parentID *int64, parent func(T) int64) []T {
	if parentID == nil {
		return rows
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if parent(row) == *parentID {
			out = append(out, row)
		}
	}
	return out
}

func contains[T any](rows []T, id int64, key func(T) int64) bool {
	for _, row := range rows {
		if key(row) == id {
			return true
		}
	}
	return false
}
