package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type departmentRepository interface {
	List(ctx context.Context, filter models.DepartmentFilter) ([]models.Department, int, error)
	FindByID(ctx context.Context, id int64) (*models.Department, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id int64) error
}

// CreateDepartmentRequest captures fields for creating departments.
type CreateDepartmentRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
	CategoryID  int64  `json:"category_id" validate:"required,gt=0"`
}

// UpdateDepartmentRequest modifies a department. The parent category is fixed.
type UpdateDepartmentRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// DepartmentService handles department administration.
type DepartmentService struct {
	repo      departmentRepository
	cache     *CacheService
	blobs     *BlobCleaner
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService creates a new department service.
func NewDepartmentService(repo departmentRepository, cache *CacheService, blobs *BlobCleaner, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, cache: cache, blobs: blobs, validator: validate, logger: logger}
}

// List returns paginated departments.
func (s *DepartmentService) List(ctx context.Context, filter models.DepartmentFilter) ([]models.Department, *models.Pagination, error) {
	departments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	return departments, paginationFor(filter.Paging, total), nil
}

// Get returns a department by id.
func (s *DepartmentService) Get(ctx context.Context, id int64) (*models.Department, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "department not found", "failed to load department")
	}
	return department, nil
}

// Create adds a department under a category.
func (s *DepartmentService) Create(ctx context.Context, req CreateDepartmentRequest) (*models.Department, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid department payload")
	}

	department := &models.Department{Name: req.Name, Description: strings.TrimSpace(req.Description), CategoryID: req.CategoryID}
	if err := s.repo.Create(ctx, department); err != nil {
		return nil, writeError(err, "department already exists in this category", "category not found", "department not found", "failed to create department")
	}
	s.cache.InvalidateBrowse(ctx)
	return department, nil
}

// Update modifies a department.
func (s *DepartmentService) Update(ctx context.Context, id int64, req UpdateDepartmentRequest) (*models.Department, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid department payload")
	}

	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "department not found", "failed to load department")
	}
	department.Name = req.Name
	department.Description = strings.TrimSpace(req.Description)

	if err := s.repo.Update(ctx, department); err != nil {
		return nil, writeError(err, "department already exists in this category", "category not found", "department not found", "failed to update department")
	}
	s.cache.InvalidateBrowse(ctx)
	return department, nil
}

// Delete removes a department and its descendants.
func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	orphans := s.blobs.Descendants(ctx, models.LevelDepartment, id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "", "", "department not found", "failed to delete department")
	}
	s.blobs.Schedule(orphans...)
	s.cache.InvalidateBrowse(ctx)
	return nil
}
