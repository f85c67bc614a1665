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

type examScheduleRepository interface {
	List(ctx context.Context, filter models.DocumentFilter) ([]models.ExamSchedule, int, error)
	FindByID(ctx context.Context, id int64) (*models.ExamSchedule, error)
	Create(ctx context.Context, schedule *models.ExamSchedule) error
	Delete(ctx context.Context, id int64) (string, error)
}

// CreateExamScheduleRequest holds the metadata fields of an exam schedule upload.
type CreateExamScheduleRequest struct {
	Title       string `form:"title" json:"title" validate:"required,max=255"`
	Description string `form:"description" json:"description" validate:"max=2000"`
	SemesterID  int64  `form:"semester_id" json:"semester_id" validate:"required,gt=0"`
}

// ExamScheduleService publishes exam schedule PDFs.
type ExamScheduleService struct {
	repo      examScheduleRepository
	lineage   lineageRepository
	uploader  *Uploader
	blobs     *BlobCleaner
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExamScheduleService creates a new exam schedule service.
func NewExamScheduleService(repo examScheduleRepository, lineage lineageRepository, uploader *Uploader, blobs *BlobCleaner, validate *validator.Validate, logger *zap.Logger) *ExamScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamScheduleService{repo: repo, lineage: lineage, uploader: uploader, blobs: blobs, validator: validate, logger: logger}
}

// List returns exam schedules, newest first by default.
func (s *ExamScheduleService) List(ctx context.Context, filter models.DocumentFilter) ([]models.ExamSchedule, *models.Pagination, error) {
	schedules, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exam schedules")
	}
	return schedules, paginationFor(filter.Paging, total), nil
}

// Get returns an exam schedule by id.
func (s *ExamScheduleService) Get(ctx context.Context, id int64) (*models.ExamSchedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "exam schedule not found", "failed to load exam schedule")
	}
	return schedule, nil
}

// Create stores the optional PDF and inserts the schedule row.
func (s *ExamScheduleService) Create(ctx context.Context, req CreateExamScheduleRequest, file *UploadFile) (*models.ExamSchedule, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid exam schedule payload")
	}

	lineage, err := s.lineage.SemesterLineage(ctx, req.SemesterID)
	if err != nil {
		return nil, parentError(err, "semester not found", "failed to resolve semester")
	}

	schedule := &models.ExamSchedule{
		Title:          req.Title,
		Description:    strings.TrimSpace(req.Description),
		SemesterID:     lineage.SemesterID,
		SemesterNumber: lineage.SemesterNumber,
		YearNumber:     lineage.YearNumber,
		DepartmentName: lineage.DepartmentName,
	}

	if file != nil {
		key := storage.ExamScheduleKey(lineage.SemesterID, file.Name, s.uploader.Now())
		url, err := s.uploader.Store(ctx, "exam_schedule", key, file)
		if err != nil {
			return nil, err
		}
		schedule.StorageKey = key
		schedule.PDFURL = url
	}

	if err := s.repo.Create(ctx, schedule); err != nil {
		if schedule.StorageKey != "" {
			s.uploader.Discard(ctx, schedule.StorageKey)
		}
		return nil, writeError(err, "exam schedule already exists", "semester not found", "exam schedule not found", "failed to create exam schedule")
	}
	return schedule, nil
}

// Delete removes the row and schedules its blob for deletion.
func (s *ExamScheduleService) Delete(ctx context.Context, id int64) error {
	key, err := s.repo.Delete(ctx, id)
	if err != nil {
		return writeError(err, "", "", "exam schedule not found", "failed to delete exam schedule")
	}
	s.blobs.Schedule(key)
	return nil
}
