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

type timetableRepository interface {
	List(ctx context.Context, filter models.DocumentFilter) ([]models.Timetable, int, error)
	FindByID(ctx context.Context, id int64) (*models.Timetable, error)
	Create(ctx context.Context, timetable *models.Timetable) error
	Delete(ctx context.Context, id int64) (string, error)
}

// CreateTimetableRequest holds the metadata fields of a timetable upload.
type CreateTimetableRequest struct {
	Title       string `form:"title" json:"title" validate:"required,max=255"`
	Description string `form:"description" json:"description" validate:"max=2000"`
	SemesterID  *int64 `form:"semester_id" json:"semester_id" validate:"omitempty,gt=0"`
}

// TimetableService publishes class timetable PDFs.
type TimetableService struct {
	repo      timetableRepository
	lineage   lineageRepository
	uploader  *Uploader
	blobs     *BlobCleaner
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService creates a new timetable service.
func NewTimetableService(repo timetableRepository, lineage lineageRepository, uploader *Uploader, blobs *BlobCleaner, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, lineage: lineage, uploader: uploader, blobs: blobs, validator: validate, logger: logger}
}

// List returns timetables, newest first by default.
func (s *TimetableService) List(ctx context.Context, filter models.DocumentFilter) ([]models.Timetable, *models.Pagination, error) {
	timetables, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetables")
	}
	return timetables, paginationFor(filter.Paging, total), nil
}

// Get returns a timetable by id.
func (s *TimetableService) Get(ctx context.Context, id int64) (*models.Timetable, error) {
	timetable, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "timetable not found", "failed to load timetable")
	}
	return timetable, nil
}

// Create stores the optional PDF and inserts the timetable row.
func (s *TimetableService) Create(ctx context.Context, req CreateTimetableRequest, file *UploadFile) (*models.Timetable, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid timetable payload")
	}
	if req.SemesterID != nil {
		if _, err := s.lineage.SemesterLineage(ctx, *req.SemesterID); err != nil {
			return nil, parentError(err, "semester not found", "failed to resolve semester")
		}
	}

	timetable := &models.Timetable{
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		SemesterID:  req.SemesterID,
	}

	if file != nil {
		key := storage.TimetableKey(s.uploader.Now())
		url, err := s.uploader.Store(ctx, "timetable", key, file)
		if err != nil {
			return nil, err
		}
		timetable.StorageKey = key
		timetable.PDFURL = url
	}

	if err := s.repo.Create(ctx, timetable); err != nil {
		if timetable.StorageKey != "" {
			s.uploader.Discard(ctx, timetable.StorageKey)
		}
		return nil, writeError(err, "timetable already exists", "semester not found", "timetable not found", "failed to create timetable")
	}
	return timetable, nil
}

// Delete removes the row and schedules its blob for deletion.
func (s *TimetableService) Delete(ctx context.Context, id int64) error {
	key, err := s.repo.Delete(ctx, id)
	if err != nil {
		return writeError(err, "", "", "timetable not found", "failed to delete timetable")
	}
	s.blobs.Schedule(key)
	return nil
}
