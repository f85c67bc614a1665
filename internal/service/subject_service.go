package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, id int64) (*models.Subject, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id int64) error
}

type lineageRepository interface {
	SemesterLineage(ctx context.Context, semesterID int64) (*models.SemesterLineage, error)
	SubjectLineage(ctx context.Context, subjectID int64) (*models.SubjectLineage, error)
}

// CreateSubjectRequest captures fields for creating subjects. Ancestor ids are
// optional and only checked against the semester's lineage.
type CreateSubjectRequest struct {
	Code         string `json:"code" validate:"required,max=32"`
	Name         string `json:"name" validate:"required,max=255"`
	Credits      *int   `json:"credits" validate:"omitempty,min=0,max=40"`
	Description  string `json:"description" validate:"max=2000"`
	SemesterID   int64  `json:"semester_id" validate:"required,gt=0"`
	CategoryID   *int64 `json:"category_id"`
	DepartmentID *int64 `json:"department_id"`
	YearID       *int64 `json:"year_id"`
}

// UpdateSubjectRequest modifies subject fields. The semester is fixed.
type UpdateSubjectRequest struct {
	Code        string `json:"code" validate:"required,max=32"`
	Name        string `json:"name" validate:"required,max=255"`
	Credits     *int   `json:"credits" validate:"omitempty,min=0,max=40"`
	Description string `json:"description" validate:"max=2000"`
}

// SubjectService handles subject administration.
type SubjectService struct {
	repo      subjectRepository
	lineage   lineageRepository
	cache     *CacheService
	blobs     *BlobCleaner
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(repo subjectRepository, lineage lineageRepository, cache *CacheService, blobs *BlobCleaner, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, lineage: lineage, cache: cache, blobs: blobs, validator: validate, logger: logger}
}

// List returns paginated subjects.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	subjects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, paginationFor(filter.Paging, total), nil
}

// Get returns subject by identifier.
func (s *SubjectService) Get(ctx context.Context, id int64) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "subject not found", "failed to load subject")
	}
	return subject, nil
}

// Create adds a subject, deriving its ancestors from the semester.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid subject payload")
	}

	lineage, err := s.lineage.SemesterLineage(ctx, req.SemesterID)
	if err != nil {
		return nil, parentError(err, "semester not found", "failed to resolve semester")
	}
	ancestors := models.AncestorIDs{CategoryID: req.CategoryID, DepartmentID: req.DepartmentID, YearID: req.YearID}
	if !ancestors.Matches(*lineage) {
		return nil, appErrors.Clone(appErrors.ErrHierarchyMismatch, "")
	}

	exists, err := s.repo.ExistsByCode(ctx, req.Code, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "subject code already exists")
	}

	subject := &models.Subject{
		Code:           req.Code,
		Name:           req.Name,
		Credits:        req.Credits,
		Description:    strings.TrimSpace(req.Description),
		SemesterID:     lineage.SemesterID,
		CategoryID:     lineage.CategoryID,
		DepartmentID:   lineage.DepartmentID,
		YearID:         lineage.YearID,
		SemesterNumber: lineage.SemesterNumber,
		YearNumber:     lineage.YearNumber,
		DepartmentName: lineage.DepartmentName,
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, writeError(err, "subject code already exists", "semester not found", "subject not found", "failed to create subject")
	}
	s.cache.InvalidateBrowse(ctx)
	return subject, nil
}

// Update modifies an existing subject.
func (s *SubjectService) Update(ctx context.Context, id int64, req UpdateSubjectRequest) (*models.Subject, error) {
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid subject payload")
	}

	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "subject not found", "failed to load subject")
	}

	exists, err := s.repo.ExistsByCode(ctx, req.Code, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "subject code already exists")
	}

	subject.Code = req.Code
	subject.Name = req.Name
	subject.Credits = req.Credits
	subject.Description = strings.TrimSpace(req.Description)

	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, writeError(err, "subject code already exists", "semester not found", "subject not found", "failed to update subject")
	}
	s.cache.InvalidateBrowse(ctx)
	return subject, nil
}

// Delete removes a subject with its materials and opinions.
func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	orphans := s.blobs.Descendants(ctx, models.LevelSubject, id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "", "", "subject not found", "failed to delete subject")
	}
	s.blobs.Schedule(orphans...)
	s.cache.InvalidateBrowse(ctx)
	return nil
}
