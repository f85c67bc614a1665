package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type semesterRepository interface {
	List(ctx context.Context, filter models.SemesterFilter) ([]models.Semester, int, error)
	FindByID(ctx context.Context, id int64) (*models.Semester, error)
	Create(ctx context.Context, semester *models.Semester) error
	Update(ctx context.Context, semester *models.Semester) error
	Delete(ctx context.Context, id int64) error
}

// CreateSemesterRequest captures fields for creating semesters.
type CreateSemesterRequest struct {
	YearID         int64 `json:"year_id" validate:"required,gt=0"`
	SemesterNumber int   `json:"semester_number" validate:"required,min=1,max=12"`
}

// UpdateSemesterRequest changes the semester number.
type UpdateSemesterRequest struct {
	SemesterNumber int `json:"semester_number" validate:"required,min=1,max=12"`
}

// SemesterService handles semester administration.
type SemesterService struct {
	repo      semesterRepository
	cache     *CacheService
	blobs     *BlobCleaner
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSemesterService creates a new semester service.
func NewSemesterService(repo semesterRepository, cache *CacheService, blobs *BlobCleaner, validate *validator.Validate, logger *zap.Logger) *SemesterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SemesterService{repo: repo, cache: cache, blobs: blobs, validator: validate, logger: logger}
}

// List returns paginated semesters.
func (s *SemesterService) List(ctx context.Context, filter models.SemesterFilter) ([]models.Semester, *models.Pagination, error) {
	semesters, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semesters")
	}
	return semesters, paginationFor(filter.Paging, total), nil
}

// Get returns a semester by id.
func (s *SemesterService) Get(ctx context.Context, id int64) (*models.Semester, error) {
	semester, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "semester not found", "failed to load semester")
	}
	return semester, nil
}

// Create adds a semester to a year.
func (s *SemesterService) Create(ctx context.Context, req CreateSemesterRequest) (*models.Semester, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid semester payload")
	}

	semester := &models.Semester{YearID: req.YearID, SemesterNumber: req.SemesterNumber}
	if err := s.repo.Create(ctx, semester); err != nil {
		return nil, writeError(err, "semester already exists in this year", "year not found", "semester not found", "failed to create semester")
	}
	s.cache.InvalidateBrowse(ctx)
	return semester, nil
}

// Update modifies a semester.
func (s *SemesterService) Update(ctx context.Context, id int64, req UpdateSemesterRequest) (*models.Semester, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid semester payload")
	}

	semester, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "semester not found", "failed to load semester")
	}
	semester.SemesterNumber = req.SemesterNumber

	if err := s.repo.Update(ctx, semester); err != nil {
		return nil, writeError(err, "semester already exists in this year", "year not found", "semester not found", "failed to update semester")
	}
	s.cache.InvalidateBrowse(ctx)
	return semester, nil
}

// Delete removes a semester and its descendants.
func (s *SemesterService) Delete(ctx context.Context, id int64) error {
	orphans := s.blobs.Descendants(ctx, models.LevelSemester, id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "", "", "semester not found", "failed to delete semester")
	}
	s.blobs.Schedule(orphans...)
	s.cache.InvalidateBrowse(ctx)
	return nil
}
