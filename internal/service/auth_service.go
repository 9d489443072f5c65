package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/portal-service/internal/auth"
	"github.com/spec-kit/portal-service/internal/config"
	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/repository"
	"github.com/spec-kit/portal-service/internal/token"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

// Auth failures surfaced to handlers.
var (
	ErrInvalidCredentials = apperrors.NewUnauthorized("invalid credentials")
	ErrAccountDisabled    = apperrors.NewForbidden("account disabled")
	ErrEmailTaken         = apperrors.NewConflict("email already registered", nil)
)

// AuthService coordinates admin login and account management.
type AuthService struct {
	admins     repository.AdminRepository
	tokens     *token.Manager
	bcryptCost int
	// decoyHash is checked on unknown emails; a miss costs one bcrypt compare.
	decoyHash  string
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	AdminRepo repository.AdminRepository
	Logger    *zap.Logger
	// Clock overrides time.Now for token timestamps.
	Clock func() time.Time
}

// NewAuthService builds the service. It fails with token.ErrConfiguration when
// no signing secret is configured.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) (*AuthService, error) {
	tokens, err := token.NewManager([]byte(cfg.TokenSecret), cfg.AccessTokenTTL(), token.WithClock(deps.Clock))
	if err != nil {
		return nil, err
	}
	decoyHash, err := auth.HashPassword(uuid.NewString(), cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		admins:     deps.AdminRepo,
		tokens:     tokens,
		bcryptCost: cfg.BcryptCost,
		decoyHash:  decoyHash,
		logger:     logger,
	}, nil
}

// CreateAdminInput describes a new admin account.
type CreateAdminInput struct {
	Name     string
	Email    string
	Password string
	Role     token.Role
}

// Login authenticates an admin and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Admin, string, time.Time, error) {
	admin, err := s.admins.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, pgx.ErrNoRows) {
		auth.ComparePassword(s.decoyHash, password)
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !auth.ComparePassword(admin.PasswordHash, password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !admin.Active {
		return nil, "", time.Time{}, ErrAccountDisabled
	}

	signed, exp, err := s.tokens.Issue(token.Claims{
		Subject: admin.ID,
		Email:   admin.Email,
		Role:    admin.Role,
	})
	if err != nil {
		return nil, "", time.Time{}, err
	}
	s.logger.Info("admin signed in", zap.String("admin_id", admin.ID), zap.String("role", string(admin.Role)))
	return admin, signed, exp, nil
}

// CreateAdmin registers a new admin account.
func (s *AuthService) CreateAdmin(ctx context.Context, actor *domain.Admin, in CreateAdminInput) (*domain.Admin, error) {
	details := map[string]any{}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" {
		details["name"] = "required"
	}
	if !strings.Contains(in.Email, "@") {
		details["email"] = "must be a valid email"
	}
	if in.Role == "" {
		in.Role = token.RoleAdmin
	}
	if !in.Role.Valid() {
		details["role"] = "must be admin or super_admin"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid admin", details)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return nil, apperrors.NewValidationError(err.Error(), map[string]any{"password": "too short"})
		}
		return nil, err
	}

	admin := &domain.Admin{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Active:       true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	actorID := ""
	if actor != nil {
		actorID = actor.ID
	}
	s.logger.Info("admin created",
		zap.String("admin_id", admin.ID),
		zap.String("role", string(admin.Role)),
		zap.String("created_by", actorID))
	return admin, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, adminID, currentPassword, newPassword string) error {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if !auth.ComparePassword(admin.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return apperrors.NewValidationError(err.Error(), map[string]any{"new_password": "too short"})
		}
		return err
	}
	admin.PasswordHash = hash
	return s.admins.Update(ctx, admin)
}

// EnsureBootstrapAdmin creates the configured super admin if it does not exist.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}
	_, err := s.admins.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	_, err = s.CreateAdmin(ctx, nil, CreateAdminInput{
		Name:     "Super Admin",
		Email:    email,
		Password: password,
		Role:     token.RoleSuperAdmin,
	})
	return err
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *token.Manager {
	return s.tokens
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
