package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studyhub-api/internal/models"
)

const opinionSelect = `SELECT o.id, o.subject_id, o.rating, o.comment, sb.code AS subject_code, sb.name AS subject_name, o.created_at
FROM opinions o JOIN subjects sb ON sb.id = o.subject_id`

// OpinionRepository handles persistence for subject opinions.
type OpinionRepository struct {
	db *sqlx.DB
}

// NewOpinionRepository creates a new repository instance.
func NewOpinionRepository(db *sqlx.DB) *OpinionRepository {
	return &OpinionRepository{db: db}
}

// List returns opinions for moderation, newest first.
func (r *OpinionRepository) List(ctx context.Context, filter models.OpinionFilter) ([]models.Opinion, int, error) {
	var cond conditions
	if filter.SubjectID != nil {
		cond.add("o.subject_id = $%d", *filter.SubjectID)
	}

	sorts := map[string]string{"rating": "o.rating", "created_at": "o.created_at"}
	opinions := []models.Opinion{}
	if err := r.db.SelectContext(ctx, &opinions, opinionSelect+cond.where()+pageClause(filter.Paging, sorts, "o.created_at"), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list opinions: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM opinions o"+cond.where(), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count opinions: %w", err)
	}
	return opinions, total, nil
}

// ListBySubject returns every opinion of a subject, newest first.
func (r *OpinionRepository) ListBySubject(ctx context.Context, subjectID int64) ([]models.Opinion, error) {
	opinions := []models.Opinion{}
	if err := r.db.SelectContext(ctx, &opinions, opinionSelect+" WHERE o.subject_id = $1 ORDER BY o.created_at DESC, o.id DESC", subjectID); err != nil {
		return nil, fmt.Errorf("list subject opinions: %w", err)
	}
	return opinions, nil
}

// Create persists an opinion.
func (r *OpinionRepository) Create(ctx context.Context, opinion *models.Opinion) error {
	const query = `INSERT INTO opinions (subject_id, rating, comment) VALUES (:subject_id, :rating, :comment) RETURNING id, created_at`
	if err := insertReturning(ctx, r.db, query, opinion, &opinion.ID, &opinion.CreatedAt); err != nil {
		return fmt.Errorf("create opinion: %w", err)
	}
	return nil
}

// Delete removes an opinion.
func (r *OpinionRepository) Delete(ctx context.Context, id int64) error {
	if err := execAffecting(ctx, r.db, `DELETE FROM opinions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete opinion: %w", err)
	}
	return nil
}
