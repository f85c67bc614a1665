package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studyhub-api/internal/models"
)

var materialRowColumns = []string{"id", "title", "type", "description", "pdf_url", "storage_key", "subject_id", "category_id", "department_id", "year_id", "semester_id", "subject_code", "subject_name", "created_at", "updated_at"}

func TestMaterialRepositoryListBySubject(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMaterialRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(materialRowColumns).
		AddRow(2, "Unit 2", "notes", "", "http://files/b.pdf", "b.pdf", 5, 1, 2, 3, 4, "CS101", "Programming", now, now).
		AddRow(1, "2022 paper", "pyq", "", "http://files/a.pdf", "a.pdf", 5, 1, 2, 3, 4, "CS101", "Programming", now.Add(-time.Hour), now)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE m.subject_id = $1 ORDER BY m.created_at DESC, m.id DESC")).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	materials, err := repo.ListBySubject(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, materials, 2)
	assert.Equal(t, models.MaterialNotes, materials[0].Type)
	assert.Equal(t, "CS101", materials[1].SubjectCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaterialRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMaterialRepository(db)

	subjectID := int64(5)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE m.subject_id = $1 AND m.type = $2 ORDER BY m.created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs(subjectID, "syllabus").
		WillReturnRows(sqlmock.NewRows(materialRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM materials m WHERE m.subject_id = $1 AND m.type = $2")).
		WithArgs(subjectID, "syllabus").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	materials, total, err := repo.List(context.Background(), models.MaterialFilter{SubjectID: &subjectID, Type: models.MaterialSyllabus})
	require.NoError(t, err)
	assert.Empty(t, materials)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaterialRepositoryDeleteReturnsKey(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMaterialRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM materials WHERE id = $1 RETURNING storage_key")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"storage_key"}).AddRow("materials/x/y.pdf"))

	key, err := repo.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "materials/x/y.pdf", key)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM materials WHERE id = $1 RETURNING storage_key")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"storage_key"}))

	_, err = repo.Delete(context.Background(), 4)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}
