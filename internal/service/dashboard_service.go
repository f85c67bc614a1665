package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type dashboardRepository interface {
	Counts(ctx context.Context) (*models.DashboardCounts, error)
}

// DashboardService composes the admin dashboard.
type DashboardService struct {
	repo   dashboardRepository
	logger *zap.Logger
}

// NewDashboardService constructs a dashboard service.
func NewDashboardService(repo dashboardRepository, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, logger: logger}
}

// Counts returns content totals.
func (s *DashboardService) Counts(ctx context.Context) (*models.DashboardCounts, error) {
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		s.logger.Error("dashboard counts failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard")
	}
	return counts, nil
}
