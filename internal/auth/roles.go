package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portal-service/internal/token"
)

// RequireRole ensures the principal holds one of the allowed roles. With no
// roles given, any authenticated admin passes.
func RequireRole(allowed ...token.Role) fiber.Handler {
	allowedSet := make(map[token.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role()]; !exists {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// RequireSuperAdmin restricts a route to super admins.
func RequireSuperAdmin() fiber.Handler {
	return RequireRole(token.RoleSuperAdmin)
}
