package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studyhub-api/internal/models"
)

// LineageRepository resolves the ancestor chain of semesters and subjects in a single query.
type LineageRepository struct {
	db *sqlx.DB
}

// NewLineageRepository creates a new repository instance.
func NewLineageRepository(db *sqlx.DB) *LineageRepository {
	return &LineageRepository{db: db}
}

const semesterLineageQuery = `SELECT c.id AS category_id, c.name AS category_name, d.id AS department_id, d.name AS department_name,
y.id AS year_id, y.year_number, s.id AS semester_id, s.semester_number
FROM semesters s
JOIN years y ON y.id = s.year_id
JOIN departments d ON d.id = y.department_id
JOIN categories c ON c.id = d.category_id
WHERE s.id = $1`

const subjectLineageQuery = `SELECT c.id AS category_id, c.name AS category_name, d.id AS department_id, d.name AS department_name,
y.id AS year_id, y.year_number, s.id AS semester_id, s.semester_number, sb.id AS subject_id, sb.code AS subject_code, sb.name AS subject_name
FROM subjects sb
JOIN semesters s ON s.id = sb.semester_id
JOIN years y ON y.id = s.year_id
JOIN departments d ON d.id = y.department_id
JOIN categories c ON c.id = d.category_id
WHERE sb.id = $1`

// SemesterLineage returns the category, department and year above a semester.
// Missing semesters yield sql.ErrNoRows.
func (r *LineageRepository) SemesterLineage(ctx context.Context, semesterID int64) (*models.SemesterLineage, error) {
	var lineage models.SemesterLineage
	if err := r.db.GetContext(ctx, &lineage, semesterLineageQuery, semesterID); err != nil {
		return nil, err
	}
	return &lineage, nil
}

// SubjectLineage returns the full chain above a subject.
func (r *LineageRepository) SubjectLineage(ctx context.Context, subjectID int64) (*models.SubjectLineage, error) {
	var lineage models.SubjectLineage
	if err := r.db.GetContext(ctx, &lineage, subjectLineageQuery, subjectID); err != nil {
		return nil, err
	}
	return &lineage, nil
}
