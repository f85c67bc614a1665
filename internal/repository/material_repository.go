package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studyhub-api/internal/models"
)

const materialSelect = `SELECT m.id, m.title, m.type, m.description, m.pdf_url, m.storage_key, m.subject_id, m.category_id, m.department_id, m.year_id, m.semester_id,
sb.code AS subject_code, sb.name AS subject_name, m.created_at, m.updated_at
FROM materials m JOIN subjects sb ON sb.id = m.subject_id`

var materialSorts = map[string]string{
	"title":      "m.title",
	"type":       "m.type",
	"subject":    "sb.code",
	"created_at": "m.created_at",
}

// MaterialRepository handles persistence for study materials.
type MaterialRepository struct {
	db *sqlx.DB
}

// NewMaterialRepository creates a new repository instance.
func NewMaterialRepository(db *sqlx.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// List returns materials joined with their subject.
func (r *MaterialRepository) List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, int, error) {
	var cond conditions
	if filter.SubjectID != nil {
		cond.add("m.subject_id = $%d", *filter.SubjectID)
	}
	if filter.SemesterID != nil {
		cond.add("m.semester_id = $%d", *filter.SemesterID)
	}
	if filter.Type != "" {
		cond.add("m.type = $%d", string(filter.Type))
	}
	if filter.Search != "" {
		cond.add("LOWER(m.title) LIKE $%d", "%"+strings.ToLower(filter.Search)+"%")
	}

	materials := []models.Material{}
	if err := r.db.SelectContext(ctx, &materials, materialSelect+cond.where()+pageClause(filter.Paging, materialSorts, "m.created_at"), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list materials: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM materials m"+cond.where(), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count materials: %w", err)
	}
	return materials, total, nil
}

// ListBySubject returns a subject's materials, newest first.
func (r *MaterialRepository) ListBySubject(ctx context.Context, subjectID int64) ([]models.Material, error) {
	materials := []models.Material{}
	if err := r.db.SelectContext(ctx, &materials, materialSelect+" WHERE m.subject_id = $1 ORDER BY m.created_at DESC, m.id DESC", subjectID); err != nil {
		return nil, fmt.Errorf("list subject materials: %w", err)
	}
	return materials, nil
}

// FindByID returns a material by id.
func (r *MaterialRepository) FindByID(ctx context.Context, id int64) (*models.Material, error) {
	var material models.Material
	if err := r.db.GetContext(ctx, &material, materialSelect+" WHERE m.id = $1", id); err != nil {
		return nil, err
	}
	return &material, nil
}

// Create persists a material row.
func (r *MaterialRepository) Create(ctx context.Context, material *models.Material) error {
	const query = `INSERT INTO materials (title, type, description, pdf_url, storage_key, subject_id, category_id, department_id, year_id, semester_id)
VALUES (:title, :type, :description, :pdf_url, :storage_key, :subject_id, :category_id, :department_id, :year_id, :semester_id) RETURNING id, created_at, updated_at`
	if err := insertReturning(ctx, r.db, query, material, &material.ID, &material.CreatedAt, &material.UpdatedAt); err != nil {
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

// Update modifies title, type and description.
func (r *MaterialRepository) Update(ctx context.Context, material *models.Material) error {
	const query = `UPDATE materials SET title = :title, type = :type, description = :description, updated_at = NOW() WHERE id = :id RETURNING updated_at`
	if err := insertReturning(ctx, r.db, query, material, &material.UpdatedAt); err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	return nil
}

// Delete removes a material and returns the storage key of its blob.
func (r *MaterialRepository) Delete(ctx context.Context, id int64) (string, error) {
	var key string
	if err := r.db.GetContext(ctx, &key, `DELETE FROM materials WHERE id = $1 RETURNING storage_key`, id); err != nil {
		return "", fmt.Errorf("delete material: %w", err)
	}
	return key, nil
}

// Inventory returns every material with its full hierarchy for export.
func (r *MaterialRepository) Inventory(ctx context.Context) ([]models.MaterialInventoryRow, error) {
	const query = `SELECT m.title, m.type, sb.code AS subject_code, sb.name AS subject_name, s.semester_number, y.year_number,
d.name AS department_name, c.name AS category_name, m.pdf_url, m.created_at
FROM materials m
JOIN subjects sb ON sb.id = m.subject_id
JOIN semesters s ON s.id = m.semester_id
JOIN years y ON y.id = m.year_id
JOIN departments d ON d.id = m.department_id
JOIN categories c ON c.id = m.category_id
ORDER BY c.name, d.name, y.year_number, s.semester_number, sb.code, m.title`
	rows := []models.MaterialInventoryRow{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("material inventory: %w", err)
	}
	return rows, nil
}
