package middleware

import (
	"errors"
	"fmt"
	"strings"

	"freight-admin/apperrors"
	"freight-admin/constants"
	"freight-admin/logger"
	"freight-admin/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	ID          string   `json:"id"`
	Email       string   `json:"email,omitempty"`
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions"`
}

// Has reports whether the principal holds perm.
func (p *Principal) Has(perm string) bool {
	for _, granted := range p.Permissions {
		if granted == perm {
			return true
		}
	}
	return false
}

// Guard builds authentication middleware around a Verifier.
type Guard struct {
	Verifier *Verifier
}

func NewGuard(v *Verifier) *Guard {
	return &Guard{Verifier: v}
}

// RequirePermissions allows the request when the caller holds at least one
// of permissions.
func (g *Guard) RequirePermissions(permissions ...string) fiber.Handler {
	return g.IsAuthenticated(permissions)
}

// RequireAuthentication only requires a valid token.
func (g *Guard) RequireAuthentication() fiber.Handler {
	return g.IsAuthenticated([]string{constants.PermAny})
}

// IsAuthenticated checks the bearer token (header, then "access" cookie)
// and stores the claims and principal in the request locals.
func (g *Guard) IsAuthenticated(requiredPermissions []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return deny(c, fiber.StatusUnauthorized, err.Error())
		}

		claims, err := g.Verifier.Verify(c.UserContext(), token)
		if err != nil {
			logger.Debug(fmt.Sprintf("JWT verification failed: %v", err))
			return deny(c, fiber.StatusUnauthorized, "Session expired. Login again.")
		}

		principal := PrincipalFromClaims(claims)
		if principal.ID == "" {
			return deny(c, fiber.StatusUnauthorized, "Session expired. Login again.")
		}
		if !allowed(principal, requiredPermissions) {
			logger.Warning(fmt.Sprintf("Access denied for %s on %s %s", principal.ID, c.Method(), c.Path()))
			return deny(c, fiber.StatusForbidden, "Insufficient permissions")
		}

		c.Locals("user", claims)
		c.Locals("principal", principal)
		c.Locals("permissions", permissionSet(principal.Permissions))
		return c.Next()
	}
}

// CurrentPrincipal returns the principal stored by IsAuthenticated.
func CurrentPrincipal(c *fiber.Ctx) (*Principal, error) {
	p, ok := c.Locals("principal").(*Principal)
	if !ok || p == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	return p, nil
}

// PrincipalID is the id of the caller, or "" on public routes.
func PrincipalID(c *fiber.Ctx) string {
	if p, err := CurrentPrincipal(c); err == nil {
		return p.ID
	}
	return ""
}

// CheckPermissionInController checks if user has specific permission within a controller
func CheckPermissionInController(c *fiber.Ctx, requiredPermission string) bool {
	userPermissions, ok := c.Locals("permissions").(map[string]bool)
	if !ok {
		userClaims, ok := c.Locals("user").(jwt.MapClaims)
		if !ok {
			return false
		}
		userPermissions = permissionSet(PrincipalFromClaims(userClaims).Permissions)
	}
	return userPermissions[requiredPermission]
}

// PrincipalFromClaims reads sub (or uid), email, role and permissions.
func PrincipalFromClaims(claims jwt.MapClaims) *Principal {
	p := &Principal{
		ID:    stringClaim(claims, "sub"),
		Email: stringClaim(claims, "email"),
		Role:  stringClaim(claims, "role"),
	}
	if p.ID == "" {
		p.ID = stringClaim(claims, "uid")
	}

	if raw, ok := claims["permissions"].([]interface{}); ok {
		for _, item := range raw {
			if perm, ok := item.(string); ok {
				p.Permissions = append(p.Permissions, perm)
			}
		}
	}
	return p
}

func allowed(p *Principal, required []string) bool {
	for _, perm := range required {
		if perm == constants.PermAny || p.Has(perm) {
			return true
		}
	}
	return len(required) == 0
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if token := c.Cookies("access"); token != "" {
			return token, nil
		}
		return "", errors.New("Authorization token missing")
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] == "" {
		return "", errors.New("Invalid authorization header format")
	}
	return tokenParts[1], nil
}

func deny(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(types.ApiResponse{
		Message: message,
		Status:  status,
	})
}

func permissionSet(perms []string) map[string]bool {
	set := make(map[string]bool, len(perms))
	for _, p := range perms {
		set[p] = true
	}
	return set
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
