package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studyhub-api/internal/models"
)

const timetableColumns = "id, title, description, pdf_url, storage_key, semester_id, created_at, updated_at"

// TimetableRepository handles persistence for timetables.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository creates a new repository instance.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// List returns timetables, newest first unless sorted otherwise.
func (r *TimetableRepository) List(ctx context.Context, filter models.DocumentFilter) ([]models.Timetable, int, error) {
	var cond conditions
	if filter.SemesterID != nil {
		cond.add("semester_id = $%d", *filter.SemesterID)
	}

	timetables := []models.Timetable{}
	query := "SELECT " + timetableColumns + " FROM timetables" + cond.where() + pageClause(filter.Paging, documentSorts, "created_at")
	if err := r.db.SelectContext(ctx, &timetables, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list timetables: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM timetables"+cond.where(), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count timetables: %w", err)
	}
	return timetables, total, nil
}

// FindByID returns a timetable by id.
func (r *TimetableRepository) FindByID(ctx context.Context, id int64) (*models.Timetable, error) {
	var timetable models.Timetable
	if err := r.db.GetContext(ctx, &timetable, "SELECT "+timetableColumns+" FROM timetables WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &timetable, nil
}

// Create persists a timetable row.
func (r *TimetableRepository) Create(ctx context.Context, timetable *models.Timetable) error {
	const query = `INSERT INTO timetables (title, description, pdf_url, storage_key, semester_id)
VALUES (:title, :description, :pdf_url, :storage_key, :semester_id) RETURNING id, created_at, updated_at`
	if err := insertReturning(ctx, r.db, query, timetable, &timetable.ID, &timetable.CreatedAt, &timetable.UpdatedAt); err != nil {
		return fmt.Errorf("create timetable: %w", err)
	}
	return nil
}

// Delete removes a timetable and returns its storage key.
func (r *TimetableRepository) Delete(ctx context.Context, id int64) (string, error) {
	var key string
	if err := r.db.GetContext(ctx, &key, `DELETE FROM timetables WHERE id = $1 RETURNING storage_key`, id); err != nil {
		return "", fmt.Errorf("delete timetable: %w", err)
	}
	return key, nil
}
