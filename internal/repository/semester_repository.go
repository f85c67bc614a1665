package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studyhub-api/internal/models"
)

const semesterSelect = `SELECT s.id, s.semester_number, s.year_id, y.year_number, y.department_id, d.name AS department_name, s.created_at, s.updated_at
FROM semesters s JOIN years y ON y.id = s.year_id JOIN departments d ON d.id = y.department_id`

var semesterSorts = map[string]string{
	"semester_number": "s.semester_number",
	"year_number":     "y.year_number",
	"created_at":      "s.created_at",
}

// SemesterRepository handles persistence for semesters.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository creates a new repository instance.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// List returns semesters joined with year number and department name.
func (r *SemesterRepository) List(ctx context.Context, filter models.SemesterFilter) ([]models.Semester, int, error) {
	var cond conditions
	if filter.YearID != nil {
		cond.add("s.year_id = $%d", *filter.YearID)
	}
	if filter.DepartmentID != nil {
		cond.add("y.department_id = $%d", *filter.DepartmentID)
	}

	semesters := []models.Semester{}
	if err := r.db.SelectContext(ctx, &semesters, semesterSelect+cond.where()+pageClause(filter.Paging, semesterSorts, "s.created_at"), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list semesters: %w", err)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM semesters s JOIN years y ON y.id = s.year_id" + cond.where()
	if err := r.db.GetContext(ctx, &total, countQuery, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count semesters: %w", err)
	}
	return semesters, total, nil
}

// ListAll returns every semester.
func (r *SemesterRepository) ListAll(ctx context.Context) ([]models.Semester, error) {
	semesters := []models.Semester{}
	if err := r.db.SelectContext(ctx, &semesters, semesterSelect+" ORDER BY d.name ASC, y.year_number ASC, s.semester_number ASC"); err != nil {
		return nil, fmt.Errorf("list all semesters: %w", err)
	}
	return semesters, nil
}

// ListByYear returns a year's semesters in ascending order.
func (r *SemesterRepository) ListByYear(ctx context.Context, yearID int64) ([]models.Semester, error) {
	semesters := []models.Semester{}
	if err := r.db.SelectContext(ctx, &semesters, semesterSelect+" WHERE s.year_id = $1 ORDER BY s.semester_number ASC", yearID); err != nil {
		return nil, fmt.Errorf("list year semesters: %w", err)
	}
	return semesters, nil
}

// FindByID returns a semester by id.
func (r *SemesterRepository) FindByID(ctx context.Context, id int64) (*models.Semester, error) {
	var semester models.Semester
	if err := r.db.GetContext(ctx, &semester, semesterSelect+" WHERE s.id = $1", id); err != nil {
		return nil, err
	}
	return &semester, nil
}

// Create persists a new semester.
func (r *SemesterRepository) Create(ctx context.Context, semester *models.Semester) error {
	const query = `INSERT INTO semesters (semester_number, year_id) VALUES (:semester_number, :year_id) RETURNING id, created_at, updated_at`
	if err := insertReturning(ctx, r.db, query, semester, &semester.ID, &semester.CreatedAt, &semester.UpdatedAt); err != nil {
		return fmt.Errorf("create semester: %w", err)
	}
	return nil
}

// Update changes the semester number.
func (r *SemesterRepository) Update(ctx context.Context, semester *models.Semester) error {
	const query = `UPDATE semesters SET semester_number = :semester_number, updated_at = NOW() WHERE id = :id RETURNING updated_at`
	if err := insertReturning(ctx, r.db, query, semester, &semester.UpdatedAt); err != nil {
		return fmt.Errorf("update semester: %w", err)
	}
	return nil
}

// Delete removes a semester.
func (r *SemesterRepository) Delete(ctx context.Context, id int64) error {
	if err := execAffecting(ctx, r.db, `DELETE FROM semesters WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete semester: %w", err)
	}
	return nil
}
