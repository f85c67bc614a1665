package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/studyhub-api/internal/models"
	"github.com/noah-isme/studyhub-api/pkg/database"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type adminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminProfile, error)
	FindByID(ctx context.Context, id int64) (*models.AdminProfile, error)
	CreateIfNone(ctx context.Context, admin *models.AdminProfile) error
	UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	ConsumeRefreshToken(ctx context.Context, token string, now time.Time) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	Issuer             string
}

// AuthService provides admin authentication use cases.
type AuthService struct {
	repo      adminRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo adminRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, config: config}
}

// Setup creates the first admin account. It is refused once any admin exists.
func (s *AuthService) Setup(ctx context.Context, req models.SetupRequest, client models.ClientInfo) (*models.AdminInfo, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid setup payload")
	}

	admin, err := s.createFirstAdmin(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, admin.ID, models.AuditActionSetup, `{"status":"created"}`, client)
	info := admin.Info()
	return &info, nil
}

// Bootstrap seeds the first admin from configuration. It reports whether an
// account was created and is a no-op when credentials are unset or an admin exists.
func (s *AuthService) Bootstrap(ctx context.Context, email, password, name string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	if err := s.validator.Struct(models.SetupRequest{Email: email, Password: password, Name: name}); err != nil {
		return false, validationError(err, "invalid bootstrap admin credentials")
	}

	admin, err := s.createFirstAdmin(ctx, email, password, name)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	s.logger.Info("bootstrap admin created", zap.Int64("admin_id", admin.ID), zap.String("email", admin.Email))
	return true, nil
}

// Login authenticates an admin and returns issued tokens.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid login payload")
	}

	admin, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch admin")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	if !admin.Active || admin.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrNoAdminAccess, "")
	}

	resp, err := s.issueTokens(ctx, admin, models.ClientInfo{IP: req.IP, UserAgent: req.UserAgent})
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateLastLogin(ctx, admin.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	}
	s.audit(ctx, admin.ID, models.AuditActionLogin, `{"status":"success"}`, models.ClientInfo{IP: req.IP, UserAgent: req.UserAgent})
	return resp, nil
}

// RefreshToken exchanges a refresh token for a new token pair, revoking the old one.
func (s *AuthService) RefreshToken(ctx context.Context, req models.RefreshTokenRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid refresh payload")
	}

	storedToken, err := s.repo.ConsumeRefreshToken(ctx, req.RefreshToken, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "refresh token is invalid, expired or revoked")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to consume refresh token")
	}

	admin, err := s.repo.FindByID(ctx, storedToken.AdminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "associated admin no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin")
	}

	if !admin.Active || admin.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrNoAdminAccess, "")
	}

	return s.issueTokens(ctx, admin, models.ClientInfo{IP: req.IP, UserAgent: req.UserAgent})
}

// Logout revokes the provided refresh token.
func (s *AuthService) Logout(ctx context.Context, req models.LogoutRequest, adminID int64, client models.ClientInfo) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid logout payload")
	}

	storedToken, err := s.repo.FindRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrUnauthorized, "refresh token not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load refresh token")
	}

	if storedToken.AdminID != adminID {
		return appErrors.Clone(appErrors.ErrForbidden, "token does not belong to admin")
	}

	if err := s.repo.RevokeRefreshToken(ctx, storedToken.ID, time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke refresh token")
	}

	s.audit(ctx, adminID, models.AuditActionLogout, `{"status":"logout"}`, client)
	return nil
}

// Me returns the profile of the authenticated admin.
func (s *AuthService) Me(ctx context.Context, adminID int64) (*models.AdminInfo, error) {
	admin, err := s.repo.FindByID(ctx, adminID)
	if err != nil {
		return nil, lookupError(err, "admin not found", "failed to load admin")
	}
	info := admin.Info()
	return &info, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, jwt.WithIssuer(s.config.Issuer))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) createFirstAdmin(ctx context.Context, email, password, name string) (*models.AdminProfile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	admin := &models.AdminProfile{Email: email, Name: name, Role: models.RoleAdmin, PasswordHash: string(hash), Active: true}
	if err := s.repo.CreateIfNone(ctx, admin); err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "an admin account already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin")
	}
	return admin, nil
}

func (s *AuthService) issueTokens(ctx context.Context, admin *models.AdminProfile, client models.ClientInfo) (*models.LoginResponse, error) {
	accessToken, err := s.generateAccessToken(admin)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	refreshTokenValue, err := s.generateRefreshTokenString()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create refresh token")
	}

	now := time.Now().UTC()
	refreshToken := &models.RefreshToken{
		ID:        uuid.NewString(),
		AdminID:   admin.ID,
		Token:     refreshTokenValue,
		ExpiresAt: now.Add(s.config.RefreshTokenExpiry),
		CreatedAt: now,
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	}
	if err := s.repo.CreateRefreshToken(ctx, refreshToken); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist refresh token")
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
		Admin:        admin.Info(),
		IssuedAt:     now,
	}, nil
}

func (s *AuthService) generateAccessToken(admin *models.AdminProfile) (string, error) {
	issuedAt := time.Now().UTC()
	claims := &models.JWTClaims{
		AdminID: admin.ID,
		Role:    admin.Role,
		Email:   admin.Email,
		Name:    admin.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   strconv.FormatInt(admin.ID, 10),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.AccessTokenSecret))
}

func (s *AuthService) generateRefreshTokenString() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *AuthService) audit(ctx context.Context, adminID int64, action, payload string, client models.ClientInfo) {
	resourceID := strconv.FormatInt(adminID, 10)
	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		AdminID:    &adminID,
		Action:     action,
		Resource:   "auth",
		ResourceID: &resourceID,
		NewValues:  []byte(payload),
		IPAddress:  client.IP,
		UserAgent:  client.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record auth audit log", zap.String("action", action), zap.Error(err))
	}
}
