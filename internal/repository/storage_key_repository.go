package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studyhub-api/internal/models"
)

var materialLevelColumns = map[models.Level]string{
	models.LevelCategory:   "category_id",
	models.LevelDepartment: "department_id",
	models.LevelYear:       "year_id",
	models.LevelSemester:   "semester_id",
	models.LevelSubject:    "subject_id",
}

var examScheduleLevelColumns = map[models.Level]string{
	models.LevelCategory:   "d.category_id",
	models.LevelDepartment: "y.department_id",
	models.LevelYear:       "s.year_id",
	models.LevelSemester:   "e.semester_id",
}

// StorageKeyRepository finds blobs that a cascading delete would orphan.
type StorageKeyRepository struct {
	db *sqlx.DB
}

// NewStorageKeyRepository creates a new repository instance.
func NewStorageKeyRepository(db *sqlx.DB) *StorageKeyRepository {
	return &StorageKeyRepository{db: db}
}

// DescendantStorageKeys lists the storage keys of materials and exam schedules
// below the given hierarchy node. Timetables survive semester deletion and are not included.
func (r *StorageKeyRepository) DescendantStorageKeys(ctx context.Context, level models.Level, id int64) ([]string, error) {
	column, ok := materialLevelColumns[level]
	if !ok {
		return nil, fmt.Errorf("unknown hierarchy level %q", level)
	}

	query := "SELECT storage_key FROM materials WHERE " + column + " = $1 AND storage_key <> ''"
	if scheduleColumn, ok := examScheduleLevelColumns[level]; ok {
		query += ` UNION ALL SELECT e.storage_key FROM exam_schedules e
JOIN semesters s ON s.id = e.semester_id JOIN years y ON y.id = s.year_id JOIN departments d ON d.id = y.department_id
WHERE ` + scheduleColumn + " = $1 AND e.storage_key <> ''"
	}

	keys := []string{}
	if err := r.db.SelectContext(ctx, &keys, query, id); err != nil {
		return nil, fmt.Errorf("list descendant storage keys: %w", err)
	}
	return keys, nil
}
