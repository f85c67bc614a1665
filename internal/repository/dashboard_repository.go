package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studyhub-api/internal/models"
)

// DashboardRepository aggregates counts for the admin dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository creates a new repository instance.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Counts returns the row count of every content table.
func (r *DashboardRepository) Counts(ctx context.Context) (*models.DashboardCounts, error) {
	const query = `SELECT
(SELECT COUNT(*) FROM categories) AS categories,
(SELECT COUNT(*) FROM departments) AS departments,
(SELECT COUNT(*) FROM years) AS years,
(SELECT COUNT(*) FROM semesters) AS semesters,
(SELECT COUNT(*) FROM subjects) AS subjects,
(SELECT COUNT(*) FROM materials) AS materials,
(SELECT COUNT(*) FROM exam_schedules) AS exam_schedules,
(SELECT COUNT(*) FROM timetables) AS timetables,
(SELECT COUNT(*) FROM opinions) AS opinions`
	var counts models.DashboardCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	return &counts, nil
}
