package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studyhub-api/internal/models"
)

const adminColumns = "id, email, name, role, password_hash, active, last_login, created_at, updated_at"

// AdminRepository persists admin profiles, refresh tokens and the audit trail.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository creates a new repository instance.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByEmail returns the admin with the given email, case-insensitively.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.AdminProfile, error) {
	var admin models.AdminProfile
	if err := r.db.GetContext(ctx, &admin, "SELECT "+adminColumns+" FROM admin_profiles WHERE LOWER(email) = LOWER($1) LIMIT 1", email); err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByID returns the admin with the given id.
func (r *AdminRepository) FindByID(ctx context.Context, id int64) (*models.AdminProfile, error) {
	var admin models.AdminProfile
	if err := r.db.GetContext(ctx, &admin, "SELECT "+adminColumns+" FROM admin_profiles WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &admin, nil
}

// CreateIfNone inserts admin only when the table is empty. It returns
// sql.ErrNoRows when an admin already exists.
func (r *AdminRepository) CreateIfNone(ctx context.Context, admin *models.AdminProfile) error {
	const query = `INSERT INTO admin_profiles (email, name, role, password_hash, active)
SELECT :email, :name, :role, :password_hash, :active
WHERE NOT EXISTS (SELECT 1 FROM admin_profiles)
RETURNING id, created_at, updated_at`
	if err := insertReturning(ctx, r.db, query, admin, &admin.ID, &admin.CreatedAt, &admin.UpdatedAt); err != nil {
		return fmt.Errorf("create first admin: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps the last successful login.
func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE admin_profiles SET last_login = $1, updated_at = $1 WHERE id = $2`, ts, id); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// CreateRefreshToken stores a refresh token.
func (r *AdminRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	const query = `INSERT INTO refresh_tokens (id, admin_id, token, expires_at, created_at, revoked, ip_address, user_agent)
VALUES (:id, :admin_id, :token, :expires_at, :created_at, :revoked, :ip_address, :user_agent)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

const refreshTokenColumns = "id, admin_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent"

// FindRefreshToken looks up a refresh token by value.
func (r *AdminRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `SELECT ` + refreshTokenColumns + ` FROM refresh_tokens WHERE token = $1`
	var rt models.RefreshToken
	if err := r.db.GetContext(ctx, &rt, query, token); err != nil {
		return nil, err
	}
	return &rt, nil
}

// RevokeRefreshToken marks a token as revoked.
func (r *AdminRepository) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $1 WHERE id = $2`, revokedAt, id); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// ConsumeRefreshToken revokes a live token in a single statement and returns it.
// It returns sql.ErrNoRows when the token is unknown, expired or already revoked,
// so two concurrent refreshes with the same token cannot both succeed.
func (r *AdminRepository) ConsumeRefreshToken(ctx context.Context, token string, now time.Time) (*models.RefreshToken, error) {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2
WHERE token = $1 AND NOT revoked AND expires_at > $2
RETURNING ` + refreshTokenColumns
	var rt models.RefreshToken
	if err := r.db.GetContext(ctx, &rt, query, token, now); err != nil {
		return nil, err
	}
	return &rt, nil
}

// CreateAuditLog appends an audit record.
func (r *AdminRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	const query = `INSERT INTO audit_logs (admin_id, action, resource, resource_id, new_values, ip_address, user_agent)
VALUES (:admin_id, :action, :resource, :resource_id, :new_values, :ip_address, :user_agent)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
