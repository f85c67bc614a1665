package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studyhub-api/internal/models"
)

const examScheduleSelect = `SELECT e.id, e.title, e.description, e.pdf_url, e.storage_key, e.semester_id, s.semester_number, y.year_number,
d.name AS department_name, e.created_at, e.updated_at
FROM exam_schedules e JOIN semesters s ON s.id = e.semester_id JOIN years y ON y.id = s.year_id JOIN departments d ON d.id = y.department_id`

var documentSorts = map[string]string{
	"title":      "title",
	"created_at": "created_at",
}

// ExamScheduleRepository handles persistence for exam schedules.
type ExamScheduleRepository struct {
	db *sqlx.DB
}

// NewExamScheduleRepository creates a new repository instance.
func NewExamScheduleRepository(db *sqlx.DB) *ExamScheduleRepository {
	return &ExamScheduleRepository{db: db}
}

// List returns exam schedules, newest first unless sorted otherwise.
func (r *ExamScheduleRepository) List(ctx context.Context, filter models.DocumentFilter) ([]models.ExamSchedule, int, error) {
	var cond conditions
	if filter.SemesterID != nil {
		cond.add("e.semester_id = $%d", *filter.SemesterID)
	}

	sorts := map[string]string{"title": "e.title", "created_at": "e.created_at"}
	schedules := []models.ExamSchedule{}
	if err := r.db.SelectContext(ctx, &schedules, examScheduleSelect+cond.where()+pageClause(filter.Paging, sorts, "e.created_at"), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list exam schedules: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM exam_schedules e"+cond.where(), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count exam schedules: %w", err)
	}
	return schedules, total, nil
}

// FindByID returns an exam schedule by id.
func (r *ExamScheduleRepository) FindByID(ctx context.Context, id int64) (*models.ExamSchedule, error) {
	var schedule models.ExamSchedule
	if err := r.db.GetContext(ctx, &schedule, examScheduleSelect+" WHERE e.id = $1", id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// Create persists an exam schedule row.
func (r *ExamScheduleRepository) Create(ctx context.Context, schedule *models.ExamSchedule) error {
	const query = `INSERT INTO exam_schedules (title, description, pdf_url, storage_key, semester_id)
VALUES (:title, :description, :pdf_url, :storage_key, :semester_id) RETURNING id, created_at, updated_at`
	if err := insertReturning(ctx, r.db, query, schedule, &schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt); err != nil {
		return fmt.Errorf("create exam schedule: %w", err)
	}
	return nil
}

// Delete removes an exam schedule and returns its storage key.
func (r *ExamScheduleRepository) Delete(ctx context.Context, id int64) (string, error) {
	var key string
	if err := r.db.GetContext(ctx, &key, `DELETE FROM exam_schedules WHERE id = $1 RETURNING storage_key`, id); err != nil {
		return "", fmt.Errorf("delete exam schedule: %w", err)
	}
	return key, nil
}
