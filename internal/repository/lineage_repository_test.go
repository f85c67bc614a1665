package repository

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineageRepositorySubjectLineage(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLineageRepository(db)

	rows := sqlmock.NewRows([]string{"category_id", "category_name", "department_id", "department_name", "year_id", "year_number", "semester_id", "semester_number", "subject_id", "subject_code", "subject_name"}).
		AddRow(1, "Engineering", 2, "Computer Science", 3, 1, 4, 2, 5, "CS101", "Programming")
	mock.ExpectQuery("FROM subjects sb").WithArgs(int64(5)).WillReturnRows(rows)

	lineage, err := repo.SubjectLineage(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), lineage.CategoryID)
	assert.Equal(t, "Computer Science", lineage.DepartmentName)
	assert.Equal(t, 2, lineage.SemesterNumber)
	assert.Equal(t, "CS101", lineage.SubjectCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLineageRepositoryMissingSemester(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLineageRepository(db)

	mock.ExpectQuery("FROM semesters s").WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

	_, err := repo.SemesterLineage(context.Background(), 9)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
