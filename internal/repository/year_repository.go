package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studyhub-api/internal/models"
)

const yearSelect = `SELECT y.id, y.year_number, y.department_id, d.name AS department_name, d.category_id, c.name AS category_name, y.created_at, y.updated_at
FROM years y JOIN departments d ON d.id = y.department_id JOIN categories c ON c.id = d.category_id`

var yearSorts = map[string]string{
	"year_number": "y.year_number",
	"department":  "d.name",
	"created_at":  "y.created_at",
}

// YearRepository handles persistence for study years.
type YearRepository struct {
	db *sqlx.DB
}

// NewYearRepository creates a new repository instance.
func NewYearRepository(db *sqlx.DB) *YearRepository {
	return &YearRepository{db: db}
}

// List returns years joined with department and category names.
func (r *YearRepository) List(ctx context.Context, filter models.YearFilter) ([]models.Year, int, error) {
	var cond conditions
	if filter.DepartmentID != nil {
		cond.add("y.department_id = $%d", *filter.DepartmentID)
	}

	years := []models.Year{}
	if err := r.db.SelectContext(ctx, &years, yearSelect+cond.where()+pageClause(filter.Paging, yearSorts, "y.created_at"), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list years: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM years y"+cond.where(), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count years: %w", err)
	}
	return years, total, nil
}

// ListAll returns every year ordered by department then number.
func (r *YearRepository) ListAll(ctx context.Context) ([]models.Year, error) {
	years := []models.Year{}
	if err := r.db.SelectContext(ctx, &years, yearSelect+" ORDER BY d.name ASC, y.year_number ASC"); err != nil {
		return nil, fmt.Errorf("list all years: %w", err)
	}
	return years, nil
}

// ListByDepartment returns a department's years in ascending order.
func (r *YearRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]models.Year, error) {
	years := []models.Year{}
	if err := r.db.SelectContext(ctx, &years, yearSelect+" WHERE y.department_id = $1 ORDER BY y.year_number ASC", departmentID); err != nil {
		return nil, fmt.Errorf("list department years: %w", err)
	}
	return years, nil
}

// FindByID returns a year by id.
func (r *YearRepository) FindByID(ctx context.Context, id int64) (*models.Year, error) {
	var year models.Year
	if err := r.db.GetContext(ctx, &year, yearSelect+" WHERE y.id = $1", id); err != nil {
		return nil, err
	}
	return &year, nil
}

// Create persists a new year.
func (r *YearRepository) Create(ctx context.Context, year *models.Year) error {
	const query = `INSERT INTO years (year_number, department_id) VALUES (:year_number, :department_id) RETURNING id, created_at, updated_at`
	if err := insertReturning(ctx, r.db, query, year, &year.ID, &year.CreatedAt, &year.UpdatedAt); err != nil {
		return fmt.Errorf("create year: %w", err)
	}
	return nil
}

// Update changes the year number.
func (r *YearRepository) Update(ctx context.Context, year *models.Year) error {
	const query = `UPDATE years SET year_number = :year_number, updated_at = NOW() WHERE id = :id RETURNING updated_at`
	if err := insertReturning(ctx, r.db, query, year, &year.UpdatedAt); err != nil {
		return fmt.Errorf("update year: %w", err)
	}
	return nil
}

// Delete removes a year.
func (r *YearRepository) Delete(ctx context.Context, id int64) error {
	if err := execAffecting(ctx, r.db, `DELETE FROM years WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete year: %w", err)
	}
	return nil
}
