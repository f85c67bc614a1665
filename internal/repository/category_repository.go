package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studyhub-api/internal/models"
)

const categoryColumns = "id, name, description, created_at, updated_at"

var categorySorts = map[string]string{
	"name":       "name",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// CategoryRepository handles persistence for categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new repository instance.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns categories matching filters with the total count.
func (r *CategoryRepository) List(ctx context.Context, filter models.CategoryFilter) ([]models.Category, int, error) {
	var cond conditions
	if filter.Search != "" {
		cond.add("LOWER(name) LIKE $%d", "%"+strings.ToLower(filter.Search)+"%")
	}

	query := "SELECT " + categoryColumns + " FROM categories" + cond.where() + pageClause(filter.Paging, categorySorts, "created_at")
	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM categories"+cond.where(), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}
	return categories, total, nil
}

// ListAll returns every category, alphabetically when byName is set, newest first otherwise.
func (r *CategoryRepository) ListAll(ctx context.Context, byName bool) ([]models.Category, error) {
	order := "created_at DESC, id DESC"
	if byName {
		order = "name ASC"
	}
	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, "SELECT "+categoryColumns+" FROM categories ORDER BY "+order); err != nil {
		return nil, fmt.Errorf("list all categories: %w", err)
	}
	return categories, nil
}

// FindByID returns a category by id.
func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	if err := r.db.GetContext(ctx, &category, "SELECT "+categoryColumns+" FROM categories WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &category, nil
}

// Create persists a new category.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	const query = `INSERT INTO categories (name, description) VALUES (:name, :description) RETURNING id, created_at, updated_at`
	if err := insertReturning(ctx, r.db, query, category, &category.ID, &category.CreatedAt, &category.UpdatedAt); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Update modifies a category.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	const query = `UPDATE categories SET name = :name, description = :description, updated_at = NOW() WHERE id = :id RETURNING updated_at`
	if err := insertReturning(ctx, r.db, query, category, &category.UpdatedAt); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category; departments and everything below cascade.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	if err := execAffecting(ctx, r.db, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
