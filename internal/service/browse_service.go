package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
	"github.com/noah-isme/studyhub-api/pkg/routeid"
)

type browseCategoryReader interface {
	ListAll(ctx context.Context, byName bool) ([]models.Category, error)
	FindByID(ctx context.Context, id int64) (*models.Category, error)
}

type browseDepartmentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Department, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]models.Department, error)
}

type browseYearReader interface {
	FindByID(ctx context.Context, id int64) (*models.Year, error)
	ListByDepartment(ctx context.Context, departmentID int64) ([]models.Year, error)
}

type browseSemesterReader interface {
	FindByID(ctx context.Context, id int64) (*models.Semester, error)
	ListByYear(ctx context.Context, yearID int64) ([]models.Semester, error)
}

type browseSubjectReader interface {
	FindByID(ctx context.Context, id int64) (*models.Subject, error)
	ListBySemester(ctx context.Context, semesterID int64) ([]models.Subject, error)
}

type subjectMaterialReader interface {
	ListBySubject(ctx context.Context, subjectID int64) ([]models.Material, error)
}

type subjectOpinionReader interface {
	ListBySubject(ctx context.Context, subjectID int64) ([]models.Opinion, error)
}

// BrowseRepositories groups the readers behind the public browse pages.
type BrowseRepositories struct {
	Categories  browseCategoryReader
	Departments browseDepartmentReader
	Years       browseYearReader
	Semesters   browseSemesterReader
	Subjects    browseSubjectReader
	Materials   subjectMaterialReader
	Opinions    subjectOpinionReader
	Lineage     lineageRepository
}

// BrowseService serves the read-only hierarchy walk for students.
type BrowseService struct {
	repos  BrowseRepositories
	cache  *CacheService
	logger *zap.Logger
}

// NewBrowseService creates a browse service.
func NewBrowseService(repos BrowseRepositories, cache *CacheService, logger *zap.Logger) *BrowseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrowseService{repos: repos, cache: cache, logger: logger}
}

var errPageNotFound = appErrors.Clone(appErrors.ErrNotFound, "page not found")

// Categories lists every category, by name when byName is set and newest first otherwise.
func (s *BrowseService) Categories(ctx context.Context, byName bool) ([]models.Category, bool, error) {
	order := "recent"
	if byName {
		order = "name"
	}
	categories, hit, err := Remember(ctx, s.cache, BrowseKey("categories", order), func(ctx context.Context) ([]models.Category, error) {
		return s.repos.Categories.ListAll(ctx, byName)
	})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	return categories, hit, nil
}

// Category returns a category with its departments.
func (s *BrowseService) Category(ctx context.Context, id int64) (*models.CategoryPage, bool, error) {
	page, hit, err := Remember(ctx, s.cache, BrowseKey("category", id), func(ctx context.Context) (*models.CategoryPage, error) {
		page := &models.CategoryPage{}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			category, err := s.repos.Categories.FindByID(gctx, id)
			if err != nil {
				return err
			}
			page.Category = *category
			return nil
		})
		g.Go(func() error {
			departments, err := s.repos.Departments.ListByCategory(gctx, id)
			page.Departments = departments
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return page, nil
	})
	if err != nil {
		return nil, false, lookupError(err, "category not found", "failed to load category")
	}
	return page, hit, nil
}

// Department returns a department with its category and years.
func (s *BrowseService) Department(ctx context.Context, id int64) (*models.DepartmentPage, bool, error) {
	page, hit, err := Remember(ctx, s.cache, BrowseKey("department", id), func(ctx context.Context) (*models.DepartmentPage, error) {
		department, err := s.repos.Departments.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		page := &models.DepartmentPage{Department: *department}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			category, err := s.repos.Categories.FindByID(gctx, department.CategoryID)
			if err != nil {
				return err
			}
			page.Category = *category
			return nil
		})
		g.Go(func() error {
			years, err := s.repos.Years.ListByDepartment(gctx, id)
			page.Years = years
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return page, nil
	})
	if err != nil {
		return nil, false, lookupError(err, "department not found", "failed to load department")
	}
	return page, hit, nil
}

// Year resolves a "departmentId-yearId" route to the year page.
func (s *BrowseService) Year(ctx context.Context, rawID string) (*models.YearPage, bool, error) {
	ids, err := routeid.Parse(rawID, 2)
	if err != nil {
		return nil, false, errPageNotFound
	}
	departmentID, yearID := ids[0], ids[1]

	page, hit, err := Remember(ctx, s.cache, BrowseKey("year", yearID), func(ctx context.Context) (*models.YearPage, error) {
		year, err := s.repos.Years.FindByID(ctx, yearID)
		if err != nil {
			return nil, err
		}
		page := &models.YearPage{Year: *year}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			department, err := s.repos.Departments.FindByID(gctx, year.DepartmentID)
			if err != nil {
				return err
			}
			page.Department = *department
			return nil
		})
		g.Go(func() error {
			semesters, err := s.repos.Semesters.ListByYear(gctx, yearID)
			page.Semesters = semesters
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return page, nil
	})
	if err != nil {
		return nil, false, lookupError(err, "year not found", "failed to load year")
	}
	if page.Year.DepartmentID != departmentID {
		return nil, false, errPageNotFound
	}
	return page, hit, nil
}

// Semester resolves a "departmentId-yearId-semesterId" route to the semester page.
func (s *BrowseService) Semester(ctx context.Context, rawID string) (*models.SemesterPage, bool, error) {
	ids, err := routeid.Parse(rawID, 3)
	if err != nil {
		return nil, false, errPageNotFound
	}
	semesterID := ids[2]

	page, hit, err := Remember(ctx, s.cache, BrowseKey("semester", semesterID), func(ctx context.Context) (*models.SemesterPage, error) {
		lineage, err := s.repos.Lineage.SemesterLineage(ctx, semesterID)
		if err != nil {
			return nil, err
		}
		page := &models.SemesterPage{}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			department, err := s.repos.Departments.FindByID(gctx, lineage.DepartmentID)
			if err != nil {
				return err
			}
			page.Department = *department
			return nil
		})
		g.Go(func() error {
			year, err := s.repos.Years.FindByID(gctx, lineage.YearID)
			if err != nil {
				return err
			}
			page.Year = *year
			return nil
		})
		g.Go(func() error {
			semester, err := s.repos.Semesters.FindByID(gctx, semesterID)
			if err != nil {
				return err
			}
			page.Semester = *semester
			return nil
		})
		g.Go(func() error {
			subjects, err := s.repos.Subjects.ListBySemester(gctx, semesterID)
			page.Subjects = subjects
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return page, nil
	})
	if err != nil {
		return nil, false, lookupError(err, "semester not found", "failed to load semester")
	}
	if page.Department.ID != ids[0] || page.Year.ID != ids[1] {
		return nil, false, errPageNotFound
	}
	return page, hit, nil
}

// Subject resolves a route ending in the subject id. Leading segments are
// matched right to left against category, department, year and semester.
func (s *BrowseService) Subject(ctx context.Context, rawID string) (*models.SubjectPage, bool, error) {
	ids, err := routeid.ParseTrailing(rawID)
	if err != nil {
		return nil, false, errPageNotFound
	}
	subjectID := routeid.Last(ids)

	page, hit, err := Remember(ctx, s.cache, BrowseKey("subject", subjectID), func(ctx context.Context) (*models.SubjectPage, error) {
		return s.loadSubjectPage(ctx, subjectID)
	})
	if err != nil {
		return nil, false, lookupError(err, "subject not found", "failed to load subject")
	}

	b := page.Breadcrumb
	if !matchesTrailing(ids[:len(ids)-1], []int64{b.CategoryID, b.DepartmentID, b.YearID, b.SemesterID}) {
		return nil, false, errPageNotFound
	}
	return page, hit, nil
}

// SubjectLineage resolves a subject route for writes such as opinion submission.
func (s *BrowseService) SubjectLineage(ctx context.Context, rawID string) (*models.SubjectLineage, error) {
	ids, err := routeid.ParseTrailing(rawID)
	if err != nil {
		return nil, errPageNotFound
	}
	lineage, err := s.repos.Lineage.SubjectLineage(ctx, routeid.Last(ids))
	if err != nil {
		return nil, lookupError(err, "subject not found", "failed to resolve subject")
	}
	if !matchesTrailing(ids[:len(ids)-1], []int64{lineage.CategoryID, lineage.DepartmentID, lineage.YearID, lineage.SemesterID}) {
		return nil, errPageNotFound
	}
	return lineage, nil
}

func (s *BrowseService) loadSubjectPage(ctx context.Context, subjectID int64) (*models.SubjectPage, error) {
	var (
		lineage   *models.SubjectLineage
		subject   *models.Subject
		materials []models.Material
		opinions  []models.Opinion
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lineage, err = s.repos.Lineage.SubjectLineage(gctx, subjectID)
		return err
	})
	g.Go(func() error {
		var err error
		subject, err = s.repos.Subjects.FindByID(gctx, subjectID)
		return err
	})
	g.Go(func() error {
		var err error
		materials, err = s.repos.Materials.ListBySubject(gctx, subjectID)
		return err
	})
	g.Go(func() error {
		var err error
		opinions, err = s.repos.Opinions.ListBySubject(gctx, subjectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.SubjectPage{
		Subject:    *subject,
		Breadcrumb: models.BreadcrumbFor(lineage.SemesterLineage),
		Materials:  models.GroupMaterials(materials),
		Opinions:   opinions,
		Summary:    Summarize(opinions),
	}, nil
}

// matchesTrailing reports whether prefix equals the tail of chain.
func matchesTrailing(prefix, chain []int64) bool {
	if len(prefix) > len(chain) {
		return false
	}
	offset := len(chain) - len(prefix)
	for i, id := range prefix {
		if chain[offset+i] != id {
			return false
		}
	}
	return true
}
