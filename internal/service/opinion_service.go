package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type opinionRepository interface {
	List(ctx context.Context, filter models.OpinionFilter) ([]models.Opinion, int, error)
	ListBySubject(ctx context.Context, subjectID int64) ([]models.Opinion, error)
	Create(ctx context.Context, opinion *models.Opinion) error
	Delete(ctx context.Context, id int64) error
}

// SubmitOpinionRequest is an anonymous rating posted from the subject page.
type SubmitOpinionRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=2000"`
}

// OpinionService moderates and records subject opinions.
type OpinionService struct {
	repo      opinionRepository
	lineage   lineageRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewOpinionService creates a new opinion service.
func NewOpinionService(repo opinionRepository, lineage lineageRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *OpinionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpinionService{repo: repo, lineage: lineage, cache: cache, validator: validate, logger: logger}
}

// List returns opinions for moderation.
func (s *OpinionService) List(ctx context.Context, filter models.OpinionFilter) ([]models.Opinion, *models.Pagination, error) {
	opinions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list opinions")
	}
	return opinions, paginationFor(filter.Paging, total), nil
}

// Delete removes an opinion.
func (s *OpinionService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "", "", "opinion not found", "failed to delete opinion")
	}
	s.cache.InvalidateBrowse(ctx)
	return nil
}

// Submit records an opinion, then re-reads the subject's opinions and returns
// them with the recomputed summary.
func (s *OpinionService) Submit(ctx context.Context, subjectID int64, req SubmitOpinionRequest) (*models.SubjectOpinions, error) {
	req.Comment = strings.TrimSpace(req.Comment)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "rating must be 1-5 and comment is required")
	}
	if _, err := s.lineage.SubjectLineage(ctx, subjectID); err != nil {
		return nil, lookupError(err, "subject not found", "failed to resolve subject")
	}

	opinion := &models.Opinion{SubjectID: subjectID, Rating: req.Rating, Comment: req.Comment}
	if err := s.repo.Create(ctx, opinion); err != nil {
		return nil, writeError(err, "opinion already exists", "subject not found", "subject not found", "failed to save opinion")
	}
	s.cache.InvalidateBrowse(ctx)

	opinions, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload opinions")
	}
	return &models.SubjectOpinions{Opinions: opinions, Summary: Summarize(opinions)}, nil
}

// Summarize counts opinions per star and averages them, rounding half up to one decimal.
func Summarize(opinions []models.Opinion) models.RatingSummary {
	summary := models.RatingSummary{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	if len(opinions) == 0 {
		return summary
	}

	var sum int64
	for _, o := range opinions {
		sum += int64(o.Rating)
		summary.Distribution[o.Rating]++
	}
	summary.Count = len(opinions)
	average, _ := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(summary.Count))).Round(1).Float64()
	summary.Average = average
	return summary
}
