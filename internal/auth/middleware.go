package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/observability"
	"github.com/spec-kit/portal-service/internal/repository"
	"github.com/spec-kit/portal-service/internal/token"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

const principalKey = "auth_principal"

// TokenVerifier checks a bearer credential. *token.Manager satisfies it.
type TokenVerifier interface {
	Verify(credential string) (*token.Claims, error)
}

// Principal represents the authenticated admin.
type Principal struct {
	Claims *token.Claims
	Admin  *domain.Admin
}

// Role returns the role the token was issued with.
func (p *Principal) Role() token.Role {
	if p == nil || p.Claims == nil {
		return ""
	}
	return p.Claims.Role
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens  TokenVerifier
	admins  repository.AdminRepository
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens TokenVerifier, admins repository.AdminRepository, metrics *observability.Metrics, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, admins: admins, metrics: metrics, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	credential, err := bearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}

	claims, err := m.tokens.Verify(credential)
	if err != nil {
		m.metrics.RecordTokenOutcome(token.Kind(err))
		if errors.Is(err, token.ErrConfiguration) {
			m.logger.Error("token verification misconfigured", zap.Error(err))
		}
		return apperrors.NewTokenError(err)
	}
	m.metrics.RecordTokenOutcome("ok")

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return apperrors.NewUnauthorized("invalid token subject")
	}

	admin, err := m.admins.GetByID(c.UserContext(), claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("admin not found")
		}
		return apperrors.MapError(err)
	}
	if !admin.Active {
		return apperrors.NewUnauthorized("admin account disabled")
	}
	if admin.Role != claims.Role {
		return apperrors.NewUnauthorized("role changed; sign in again")
	}

	c.Locals(principalKey, &Principal{Claims: claims, Admin: admin})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
