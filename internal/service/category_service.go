package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type categoryRepository interface {
	List(ctx context.Context, filter models.CategoryFilter) ([]models.Category, int, error)
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRequest captures fields for creating or updating categories.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// CategoryService handles category administration.
type CategoryService struct {
	repo      categoryRepository
	cache     *CacheService
	blobs     *BlobCleaner
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo categoryRepository, cache *CacheService, blobs *BlobCleaner, validate *validator.Validate, logger *zap.Logger) *CategoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{repo: repo, cache: cache, blobs: blobs, validator: validate, logger: logger}
}

// List returns paginated categories.
func (s *CategoryService) List(ctx context.Context, filter models.CategoryFilter) ([]models.Category, *models.Pagination, error) {
	categories, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	return categories, paginationFor(filter.Paging, total), nil
}

// Get returns a category by id.
func (s *CategoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "category not found", "failed to load category")
	}
	return category, nil
}

// Create adds a category.
func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*models.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid category payload")
	}

	category := &models.Category{Name: req.Name, Description: strings.TrimSpace(req.Description)}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, writeError(err, "category name already exists", "", "category not found", "failed to create category")
	}
	s.cache.InvalidateBrowse(ctx)
	s.logger.Info("category created", zap.Int64("category_id", category.ID))
	return category, nil
}

// Update modifies a category.
func (s *CategoryService) Update(ctx context.Context, id int64, req CategoryRequest) (*models.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid category payload")
	}

	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "category not found", "failed to load category")
	}
	category.Name = req.Name
	category.Description = strings.TrimSpace(req.Description)

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, writeError(err, "category name already exists", "", "category not found", "failed to update category")
	}
	s.cache.InvalidateBrowse(ctx)
	return category, nil
}

// Delete removes a category together with everything below it.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	orphans := s.blobs.Descendants(ctx, models.LevelCategory, id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "", "", "category not found", "failed to delete category")
	}
	s.blobs.Schedule(orphans...)
	s.cache.InvalidateBrowse(ctx)
	s.logger.Info("category deleted", zap.Int64("category_id", id))
	return nil
}
