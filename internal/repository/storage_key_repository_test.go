package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studyhub-api/internal/models"
)

func TestDescendantStorageKeysForCategory(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStorageKeyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT storage_key FROM materials WHERE category_id = $1 AND storage_key <> '' UNION ALL SELECT e.storage_key FROM exam_schedules e")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"storage_key"}).AddRow("materials/a.pdf").AddRow("exam-schedule/4/b.pdf"))

	keys, err := repo.DescendantStorageKeys(context.Background(), models.LevelCategory, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"materials/a.pdf", "exam-schedule/4/b.pdf"}, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDescendantStorageKeysForSubjectSkipsSchedules(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStorageKeyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT storage_key FROM materials WHERE subject_id = $1 AND storage_key <> ''") + "$").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"storage_key"}))

	keys, err := repo.DescendantStorageKeys(context.Background(), models.LevelSubject, 5)
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDescendantStorageKeysUnknownLevel(t *testing.T) {
	db, _, cleanup := newMock(t)
	defer cleanup()
	repo := NewStorageKeyRepository(db)

	_, err := repo.DescendantStorageKeys(context.Background(), models.Level("campus"), 1)
	assert.Error(t, err)
}
