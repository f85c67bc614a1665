package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
	"github.com/noah-isme/studyhub-api/pkg/storage"
)

type materialRepository interface {
	List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, int, error)
	FindByID(ctx context.Context, id int64) (*models.Material, error)
	Create(ctx context.Context, material *models.Material) error
	Update(ctx context.Context, material *models.Material) error
	Delete(ctx context.Context, id int64) (string, error)
}

// CreateMaterialRequest holds the metadata fields of a material upload form.
type CreateMaterialRequest struct {
	Title        string `form:"title" json:"title" validate:"required,max=255"`
	Type         string `form:"type" json:"type" validate:"required"`
	Description  string `form:"description" json:"description" validate:"max=2000"`
	SubjectID    int64  `form:"subject_id" json:"subject_id" validate:"required,gt=0"`
	CategoryID   *int64 `form:"category_id" json:"category_id"`
	DepartmentID *int64 `form:"department_id" json:"department_id"`
	YearID       *int64 `form:"year_id" json:"year_id"`
	SemesterID   *int64 `form:"semester_id" json:"semester_id"`
}

// UpdateMaterialRequest edits material metadata. The file and subject are fixed.
type UpdateMaterialRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Type        string `json:"type" validate:"required"`
	Description string `json:"description" validate:"max=2000"`
}

// MaterialService handles material uploads and edits.
type MaterialService struct {
	repo      materialRepository
	lineage   lineageRepository
	uploader  *Uploader
	blobs     *BlobCleaner
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMaterialService creates a new material service.
func NewMaterialService(repo materialRepository, lineage lineageRepository, uploader *Uploader, blobs *BlobCleaner, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *MaterialService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaterialService{repo: repo, lineage: lineage, uploader: uploader, blobs: blobs, cache: cache, validator: validate, logger: logger}
}

// List returns paginated materials.
func (s *MaterialService) List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, *models.Pagination, error) {
	materials, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list materials")
	}
	return materials, paginationFor(filter.Paging, total), nil
}

// Get returns a material by id.
func (s *MaterialService) Get(ctx context.Context, id int64) (*models.Material, error) {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "material not found", "failed to load material")
	}
	return material, nil
}

// Create stores the optional PDF and inserts the material row. When the insert
// fails the stored object is removed again.
func (s *MaterialService) Create(ctx context.Context, req CreateMaterialRequest, file *UploadFile) (*models.Material, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid material payload")
	}
	materialType, ok := models.ParseMaterialType(req.Type)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid material type")
	}

	lineage, err := s.lineage.SubjectLineage(ctx, req.SubjectID)
	if err != nil {
		return nil, parentError(err, "subject not found", "failed to resolve subject")
	}
	ancestors := models.AncestorIDs{CategoryID: req.CategoryID, DepartmentID: req.DepartmentID, YearID: req.YearID, SemesterID: req.SemesterID}
	if !ancestors.Matches(lineage.SemesterLineage) {
		return nil, appErrors.Clone(appErrors.ErrHierarchyMismatch, "")
	}

	material := &models.Material{
		Title:        req.Title,
		Type:         materialType,
		Description:  strings.TrimSpace(req.Description),
		SubjectID:    lineage.SubjectID,
		CategoryID:   lineage.CategoryID,
		DepartmentID: lineage.DepartmentID,
		YearID:       lineage.YearID,
		SemesterID:   lineage.SemesterID,
		SubjectCode:  lineage.SubjectCode,
		SubjectName:  lineage.SubjectName,
	}

	if file != nil {
		key := storage.MaterialKey(storage.MaterialPath{
			Category:       lineage.CategoryName,
			Department:     lineage.DepartmentName,
			YearNumber:     lineage.YearNumber,
			SemesterNumber: lineage.SemesterNumber,
			Subject:        lineage.SubjectName,
		}, file.Name, s.uploader.Now())
		url, err := s.uploader.Store(ctx, "material", key, file)
		if err != nil {
			return nil, err
		}
		material.StorageKey = key
		material.PDFURL = url
	}

	if err := s.repo.Create(ctx, material); err != nil {
		if material.StorageKey != "" {
			s.uploader.Discard(ctx, material.StorageKey)
		}
		return nil, writeError(err, "material already exists", "subject not found", "material not found", "failed to create material")
	}
	s.cache.InvalidateBrowse(ctx)
	s.logger.Info("material created", zap.Int64("material_id", material.ID), zap.String("storage_key", material.StorageKey))
	return material, nil
}

// Update edits title, type and description.
func (s *MaterialService) Update(ctx context.Context, id int64, req UpdateMaterialRequest) (*models.Material, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid material payload")
	}
	materialType, ok := models.ParseMaterialType(req.Type)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid material type")
	}

	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "material not found", "failed to load material")
	}
	material.Title = req.Title
	material.Type = materialType
	material.Description = strings.TrimSpace(req.Description)

	if err := s.repo.Update(ctx, material); err != nil {
		return nil, writeError(err, "material already exists", "subject not found", "material not found", "failed to update material")
	}
	s.cache.InvalidateBrowse(ctx)
	return material, nil
}

// Delete removes the row and schedules its blob for deletion.
func (s *MaterialService) Delete(ctx context.Context, id int64) error {
	key, err := s.repo.Delete(ctx, id)
	if err != nil {
		return writeError(err, "", "", "material not found", "failed to delete material")
	}
	s.blobs.Schedule(key)
	s.cache.InvalidateBrowse(ctx)
	return nil
}
