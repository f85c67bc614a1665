package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type mockAdminRepo struct {
	admins     map[int64]*models.AdminProfile
	tokens     map[string]*models.RefreshToken
	audits     []models.AuditLog
	lastLogin  map[int64]time.Time
	nextID     int64
	consumeErr error
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{
		admins:    make(map[int64]*models.AdminProfile),
		tokens:    make(map[string]*models.RefreshToken),
		lastLogin: make(map[int64]time.Time),
	}
}

func (m *mockAdminRepo) FindByEmail(ctx context.Context, email string) (*models.AdminProfile, error) {
	for _, a := range m.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAdminRepo) FindByID(ctx context.Context, id int64) (*models.AdminProfile, error) {
	if a, ok := m.admins[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAdminRepo) CreateIfNone(ctx context.Context, admin *models.AdminProfile) error {
	if len(m.admins) > 0 {
		return sql.ErrNoRows
	}
	m.nextID++
	admin.ID = m.nextID
	cp := *admin
	m.admins[admin.ID] = &cp
	return nil
}

func (m *mockAdminRepo) UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error {
	m.lastLogin[id] = ts
	return nil
}

func (m *mockAdminRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	cp := *token
	m.tokens[token.Token] = &cp
	return nil
}

func (m *mockAdminRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := m.tokens[token]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAdminRepo) ConsumeRefreshToken(ctx context.Context, token string, now time.Time) (*models.RefreshToken, error) {
	if m.consumeErr != nil {
		return nil, m.consumeErr
	}
	t, ok := m.tokens[token]
	if !ok || t.Revoked || !t.ExpiresAt.After(now) {
		return nil, sql.ErrNoRows
	}
	t.Revoked = true
	t.RevokedAt = &now
	cp := *t
	return &cp, nil
}

func (m *mockAdminRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, t := range m.tokens {
		if t.ID == id {
			t.Revoked = true
			t.RevokedAt = &revokedAt
		}
	}
	return nil
}

func (m *mockAdminRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.audits = append(m.audits, *log)
	return nil
}

func newTestAuthService(repo *mockAdminRepo) *AuthService {
	return NewAuthService(repo, nil, zap.NewNop(), AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "studyhub-test",
	})
}

func seedAdmin(t *testing.T, repo *mockAdminRepo, active bool, role models.Role) *models.AdminProfile {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.nextID++
	admin := &models.AdminProfile{ID: repo.nextID, Email: "admin@college.edu", Name: "Admin", Role: role, PasswordHash: string(hash), Active: active}
	repo.admins[admin.ID] = admin
	return admin
}

func TestAuthServiceSetupOnlyOnce(t *testing.T) {
	repo := newMockAdminRepo()
	svc := newTestAuthService(repo)

	info, err := svc.Setup(context.Background(), models.SetupRequest{Email: " Admin@College.edu ", Password: "password123", Name: "Head"}, models.ClientInfo{IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, "admin@college.edu", info.Email)
	assert.Equal(t, models.RoleAdmin, info.Role)
	require.Len(t, repo.audits, 1)
	assert.Equal(t, models.AuditActionSetup, repo.audits[0].Action)

	_, err = svc.Setup(context.Background(), models.SetupRequest{Email: "other@college.edu", Password: "password123", Name: "Other"}, models.ClientInfo{})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestAuthServiceSetupValidation(t *testing.T) {
	svc := newTestAuthService(newMockAdminRepo())

	_, err := svc.Setup(context.Background(), models.SetupRequest{Email: "not-an-email", Password: "short", Name: ""}, models.ClientInfo{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceBootstrap(t *testing.T) {
	repo := newMockAdminRepo()
	svc := newTestAuthService(repo)

	created, err := svc.Bootstrap(context.Background(), "", "", "")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = svc.Bootstrap(context.Background(), "root@college.edu", "password123", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Administrator", repo.admins[1].Name)

	created, err = svc.Bootstrap(context.Background(), "second@college.edu", "password123", "Second")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, repo.admins, 1)
}

func TestAuthServiceLogin(t *testing.T) {
	repo := newMockAdminRepo()
	admin := seedAdmin(t, repo, true, models.RoleAdmin)
	svc := newTestAuthService(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: admin.Email, Password: "s3cret-pass", IP: "127.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, admin.ID, resp.Admin.ID)
	assert.Contains(t, repo.lastLogin, admin.ID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.AdminID)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceLoginRejections(t *testing.T) {
	t.Run("wrong password", func(t *testing.T) {
		repo := newMockAdminRepo()
		admin := seedAdmin(t, repo, true, models.RoleAdmin)
		_, err := newTestAuthService(repo).Login(context.Background(), models.LoginRequest{Email: admin.Email, Password: "nope"})
		assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := newTestAuthService(newMockAdminRepo()).Login(context.Background(), models.LoginRequest{Email: "ghost@college.edu", Password: "whatever"})
		assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
	})

	t.Run("inactive admin", func(t *testing.T) {
		repo := newMockAdminRepo()
		admin := seedAdmin(t, repo, false, models.RoleAdmin)
		_, err := newTestAuthService(repo).Login(context.Background(), models.LoginRequest{Email: admin.Email, Password: "s3cret-pass"})
		assert.True(t, appErrors.Is(err, appErrors.ErrNoAdminAccess))
	})

	t.Run("non admin role", func(t *testing.T) {
		repo := newMockAdminRepo()
		admin := seedAdmin(t, repo, true, models.Role("editor"))
		_, err := newTestAuthService(repo).Login(context.Background(), models.LoginRequest{Email: admin.Email, Password: "s3cret-pass"})
		assert.True(t, appErrors.Is(err, appErrors.ErrNoAdminAccess))
	})
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	repo := newMockAdminRepo()
	admin := seedAdmin(t, repo, true, models.RoleAdmin)
	svc := newTestAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: admin.Email, Password: "s3cret-pass"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)

	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthServiceRefreshFailsWhenRevokeFails(t *testing.T) {
	repo := newMockAdminRepo()
	admin := seedAdmin(t, repo, true, models.RoleAdmin)
	svc := newTestAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: admin.Email, Password: "s3cret-pass"})
	require.NoError(t, err)

	repo.consumeErr = errors.New("connection reset")
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
	assert.Len(t, repo.tokens, 1)
	assert.False(t, repo.tokens[login.RefreshToken].Revoked)
}

func TestAuthServiceRefreshRejectsExpiredToken(t *testing.T) {
	repo := newMockAdminRepo()
	admin := seedAdmin(t, repo, true, models.RoleAdmin)
	svc := newTestAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: admin.Email, Password: "s3cret-pass"})
	require.NoError(t, err)
	repo.tokens[login.RefreshToken].ExpiresAt = time.Now().UTC().Add(-time.Minute)

	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
	assert.Len(t, repo.tokens, 1)

	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "unknown"})
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthServiceLogout(t *testing.T) {
	repo := newMockAdminRepo()
	admin := seedAdmin(t, repo, true, models.RoleAdmin)
	svc := newTestAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: admin.Email, Password: "s3cret-pass"})
	require.NoError(t, err)

	err = svc.Logout(context.Background(), models.LogoutRequest{RefreshToken: login.RefreshToken}, admin.ID+1, models.ClientInfo{})
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	require.NoError(t, svc.Logout(context.Background(), models.LogoutRequest{RefreshToken: login.RefreshToken}, admin.ID, models.ClientInfo{}))
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)
	assert.Equal(t, models.AuditActionLogout, repo.audits[len(repo.audits)-1].Action)
}

func TestAuthServiceValidateTokenRejectsForeignSecret(t *testing.T) {
	repo := newMockAdminRepo()
	admin := seedAdmin(t, repo, true, models.RoleAdmin)
	issuer := newTestAuthService(repo)
	login, err := issuer.Login(context.Background(), models.LoginRequest{Email: admin.Email, Password: "s3cret-pass"})
	require.NoError(t, err)

	other := NewAuthService(repo, nil, nil, AuthConfig{AccessTokenSecret: "other", Issuer: "studyhub-test", AccessTokenExpiry: time.Hour})
	_, err = other.ValidateToken(login.AccessToken)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthServiceMe(t *testing.T) {
	repo := newMockAdminRepo()
	admin := seedAdmin(t, repo, true, models.RoleAdmin)
	svc := newTestAuthService(repo)

	info, err := svc.Me(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.Email, info.Email)

	_, err = svc.Me(context.Background(), 99)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
