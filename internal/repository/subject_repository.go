package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studyhub-api/internal/models"
)

const subjectSelect = `SELECT sb.id, sb.code, sb.name, sb.credits, sb.description, sb.semester_id, sb.category_id, sb.department_id, sb.year_id,
s.semester_number, y.year_number, d.name AS department_name, sb.created_at, sb.updated_at
FROM subjects sb JOIN semesters s ON s.id = sb.semester_id JOIN years y ON y.id = sb.year_id JOIN departments d ON d.id = sb.department_id`

var subjectSorts = map[string]string{
	"code":       "sb.code",
	"name":       "sb.name",
	"credits":    "sb.credits",
	"created_at": "sb.created_at",
	"updated_at": "sb.updated_at",
}

// SubjectRepository handles persistence for subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns subjects matching filters with the total count.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	var cond conditions
	if filter.SemesterID != nil {
		cond.add("sb.semester_id = $%d", *filter.SemesterID)
	}
	if filter.DepartmentID != nil {
		cond.add("sb.department_id = $%d", *filter.DepartmentID)
	}
	if filter.Search != "" {
		n := len(cond.args) + 1
		cond.args = append(cond.args, "%"+strings.ToLower(filter.Search)+"%")
		cond.parts = append(cond.parts, fmt.Sprintf("(LOWER(sb.code) LIKE $%d OR LOWER(sb.name) LIKE $%d)", n, n))
	}

	subjects := []models.Subject{}
	if err := r.db.SelectContext(ctx, &subjects, subjectSelect+cond.where()+pageClause(filter.Paging, subjectSorts, "sb.created_at"), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM subjects sb"+cond.where(), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}
	return subjects, total, nil
}

// ListAll returns every subject ordered by code.
func (r *SubjectRepository) ListAll(ctx context.Context) ([]models.Subject, error) {
	subjects := []models.Subject{}
	if err := r.db.SelectContext(ctx, &subjects, subjectSelect+" ORDER BY sb.code ASC"); err != nil {
		return nil, fmt.Errorf("list all subjects: %w", err)
	}
	return subjects, nil
}

// ListBySemester returns a semester's subjects ordered by code.
func (r *SubjectRepository) ListBySemester(ctx context.Context, semesterID int64) ([]models.Subject, error) {
	subjects := []models.Subject{}
	if err := r.db.SelectContext(ctx, &subjects, subjectSelect+" WHERE sb.semester_id = $1 ORDER BY sb.code ASC", semesterID); err != nil {
		return nil, fmt.Errorf("list semester subjects: %w", err)
	}
	return subjects, nil
}

// FindByID returns a subject by id.
func (r *SubjectRepository) FindByID(ctx context.Context, id int64) (*models.Subject, error) {
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, subjectSelect+" WHERE sb.id = $1", id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ExistsByCode checks uniqueness of a subject code, ignoring excludeID when non-zero.
func (r *SubjectRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM subjects WHERE UPPER(code) = UPPER($1)"
	args := []interface{}{code}
	if excludeID != 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check subject code: %w", err)
	}
	return true, nil
}

// Create persists a new subject with its denormalized ancestors.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	const query = `INSERT INTO subjects (code, name, credits, description, semester_id, category_id, department_id, year_id)
VALUES (:code, :name, :credits, :description, :semester_id, :category_id, :department_id, :year_id) RETURNING id, created_at, updated_at`
	if err := insertReturning(ctx, r.db, query, subject, &subject.ID, &subject.CreatedAt, &subject.UpdatedAt); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update modifies a subject's own fields.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	const query = `UPDATE subjects SET code = :code, name = :name, credits = :credits, description = :description, updated_at = NOW() WHERE id = :id RETURNING updated_at`
	if err := insertReturning(ctx, r.db, query, subject, &subject.UpdatedAt); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// Delete removes a subject.
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	if err := execAffecting(ctx, r.db, `DELETE FROM subjects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}
