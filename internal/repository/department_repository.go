package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studyhub-api/internal/models"
)

const departmentSelect = `SELECT d.id, d.name, d.description, d.category_id, c.name AS category_name, d.created_at, d.updated_at
FROM departments d JOIN categories c ON c.id = d.category_id`

var departmentSorts = map[string]string{
	"name":       "d.name",
	"category":   "c.name",
	"created_at": "d.created_at",
	"updated_at": "d.updated_at",
}

// DepartmentRepository handles persistence for departments.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository creates a new repository instance.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// List returns departments joined with their category name.
func (r *DepartmentRepository) List(ctx context.Context, filter models.DepartmentFilter) ([]models.Department, int, error) {
	var cond conditions
	if filter.CategoryID != nil {
		cond.add("d.category_id = $%d", *filter.CategoryID)
	}
	if filter.Search != "" {
		cond.add("LOWER(d.name) LIKE $%d", "%"+strings.ToLower(filter.Search)+"%")
	}

	departments := []models.Department{}
	query := departmentSelect + cond.where() + pageClause(filter.Paging, departmentSorts, "d.created_at")
	if err := r.db.SelectContext(ctx, &departments, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list departments: %w", err)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM departments d JOIN categories c ON c.id = d.category_id" + cond.where()
	if err := r.db.GetContext(ctx, &total, countQuery, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count departments: %w", err)
	}
	return departments, total, nil
}

// ListAll returns every department ordered by name.
func (r *DepartmentRepository) ListAll(ctx context.Context) ([]models.Department, error) {
	departments := []models.Department{}
	if err := r.db.SelectContext(ctx, &departments, departmentSelect+" ORDER BY d.name ASC"); err != nil {
		return nil, fmt.Errorf("list all departments: %w", err)
	}
	return departments, nil
}

// ListByCategory returns the departments of a category ordered by name.
func (r *DepartmentRepository) ListByCategory(ctx context.Context, categoryID int64) ([]models.Department, error) {
	departments := []models.Department{}
	if err := r.db.SelectContext(ctx, &departments, departmentSelect+" WHERE d.category_id = $1 ORDER BY d.name ASC", categoryID); err != nil {
		return nil, fmt.Errorf("list category departments: %w", err)
	}
	return departments, nil
}

// FindByID returns a department by id.
func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	var department models.Department
	if err := r.db.GetContext(ctx, &department, departmentSelect+" WHERE d.id = $1", id); err != nil {
		return nil, err
	}
	return &department, nil
}

// Create persists a new department.
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	const query = `INSERT INTO departments (name, description, category_id) VALUES (:name, :description, :category_id) RETURNING id, created_at, updated_at`
	if err := insertReturning(ctx, r.db, query, department, &department.ID, &department.CreatedAt, &department.UpdatedAt); err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// Update modifies a department. The parent category is fixed at creation.
func (r *DepartmentRepository) Update(ctx context.Context, department *models.Department) error {
	const query = `UPDATE departments SET name = :name, description = :description, updated_at = NOW() WHERE id = :id RETURNING updated_at`
	if err := insertReturning(ctx, r.db, query, department, &department.UpdatedAt); err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}

// Delete removes a department.
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	if err := execAffecting(ctx, r.db, `DELETE FROM departments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	return nil
}
