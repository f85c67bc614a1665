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

func TestAdminRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "email", "name", "role", "password_hash", "active", "last_login", "created_at", "updated_at"}).
		AddRow(1, "admin@example.com", "Admin", "admin", "hash", true, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM admin_profiles WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("Admin@Example.com").
		WillReturnRows(rows)

	admin, err := repo.FindByEmail(context.Background(), "Admin@Example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Nil(t, admin.LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryCreateIfNone(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE NOT EXISTS (SELECT 1 FROM admin_profiles)")).
		WithArgs("admin@example.com", "Admin", models.RoleAdmin, "hash", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, now, now))

	admin := &models.AdminProfile{Email: "admin@example.com", Name: "Admin", Role: models.RoleAdmin, PasswordHash: "hash", Active: true}
	require.NoError(t, repo.CreateIfNone(context.Background(), admin))
	assert.Equal(t, int64(1), admin.ID)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE NOT EXISTS (SELECT 1 FROM admin_profiles)")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}))

	err := repo.CreateIfNone(context.Background(), &models.AdminProfile{Email: "second@example.com", Role: models.RoleAdmin})
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryRefreshTokens(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	now := time.Now()
	mock.ExpectExec("INSERT INTO refresh_tokens").WillReturnResult(sqlmock.NewResult(1, 1))
	err := repo.CreateRefreshToken(context.Background(), &models.RefreshToken{ID: "rt-1", AdminID: 1, Token: "token", ExpiresAt: now.Add(time.Hour), CreatedAt: now})
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $1 WHERE id = $2")).
		WithArgs(now, "rt-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.RevokeRefreshToken(context.Background(), "rt-1", now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryConsumeRefreshToken(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	now := time.Now()
	query := regexp.QuoteMeta("UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2") + ".+" + regexp.QuoteMeta("WHERE token = $1 AND NOT revoked AND expires_at > $2")
	rows := sqlmock.NewRows([]string{"id", "admin_id", "token", "expires_at", "created_at", "revoked", "revoked_at", "ip_address", "user_agent"}).
		AddRow("rt-1", 1, "token", now.Add(time.Hour), now, true, now, "127.0.0.1", "curl")
	mock.ExpectQuery(query).WithArgs("token", now).WillReturnRows(rows)

	rt, err := repo.ConsumeRefreshToken(context.Background(), "token", now)
	require.NoError(t, err)
	assert.Equal(t, "rt-1", rt.ID)
	assert.True(t, rt.Revoked)

	mock.ExpectQuery(query).WithArgs("token", now).WillReturnError(sql.ErrNoRows)
	_, err = repo.ConsumeRefreshToken(context.Background(), "token", now)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryCreateAuditLog(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectExec("INSERT INTO audit_logs").WillReturnResult(sqlmock.NewResult(1, 1))
	adminID := int64(1)
	err := repo.CreateAuditLog(context.Background(), &models.AuditLog{AdminID: &adminID, Action: models.AuditActionLogin, Resource: "auth"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
