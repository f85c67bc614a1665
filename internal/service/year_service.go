package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type yearRepository interface {
	List(ctx context.Context, filter models.YearFilter) ([]models.Year, int, error)
	FindByID(ctx context.Context, id int64) (*models.Year, error)
	Create(ctx context.Context, year *models.Year) error
	Update(ctx context.Context, year *models.Year) error
	Delete(ctx context.Context, id int64) error
}

// CreateYearRequest captures fields for creating years.
type CreateYearRequest struct {
	DepartmentID int64 `json:"department_id" validate:"required,gt=0"`
	YearNumber   int   `json:"year_number" validate:"required,min=1,max=10"`
}

// UpdateYearRequest changes the year number.
type UpdateYearRequest struct {
	YearNumber int `json:"year_number" validate:"required,min=1,max=10"`
}

// YearService handles study year administration.
type YearService struct {
	repo      yearRepository
	cache     *CacheService
	blobs     *BlobCleaner
	validator *validator.Validate
	logger    *zap.Logger
}

// NewYearService creates a new year service.
func NewYearService(repo yearRepository, cache *CacheService, blobs *BlobCleaner, validate *validator.Validate, logger *zap.Logger) *YearService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YearService{repo: repo, cache: cache, blobs: blobs, validator: validate, logger: logger}
}

// List returns paginated years.
func (s *YearService) List(ctx context.Context, filter models.YearFilter) ([]models.Year, *models.Pagination, error) {
	years, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list years")
	}
	return years, paginationFor(filter.Paging, total), nil
}

// Get returns a year by id.
func (s *YearService) Get(ctx context.Context, id int64) (*models.Year, error) {
	year, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "year not found", "failed to load year")
	}
	return year, nil
}

// Create adds a year to a department.
func (s *YearService) Create(ctx context.Context, req CreateYearRequest) (*models.Year, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid year payload")
	}

	year := &models.Year{DepartmentID: req.DepartmentID, YearNumber: req.YearNumber}
	if err := s.repo.Create(ctx, year); err != nil {
		return nil, writeError(err, "year already exists in this department", "department not found", "year not found", "failed to create year")
	}
	s.cache.InvalidateBrowse(ctx)
	return year, nil
}

// Update modifies a year.
func (s *YearService) Update(ctx context.Context, id int64, req UpdateYearRequest) (*models.Year, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid year payload")
	}

	year, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "year not found", "failed to load year")
	}
	year.YearNumber = req.YearNumber

	if err := s.repo.Update(ctx, year); err != nil {
		return nil, writeError(err, "year already exists in this department", "department not found", "year not found", "failed to update year")
	}
	s.cache.InvalidateBrowse(ctx)
	return year, nil
}

// Delete removes a year and its descendants.
func (s *YearService) Delete(ctx context.Context, id int64) error {
	orphans := s.blobs.Descendants(ctx, models.LevelYear, id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "", "", "year not found", "failed to delete year")
	}
	s.blobs.Schedule(orphans...)
	s.cache.InvalidateBrowse(ctx)
	return nil
}
