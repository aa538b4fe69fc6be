package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devsoc/hackathon-platform/internal/authz"
)

// RequireRole returns middleware enforcing that the authenticated
// principal holds one of the given roles. It is the coarse gate on
// route groups; per-instance decisions stay with the authorization
// engine inside handlers. Assumes JWTAuth ran earlier in the chain.
func RequireRole(roles ...authz.Role) echo.MiddlewareFunc {
	allowed := make(map[authz.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := Principal(c)
			if !ok || !authz.Permits(p.Role, allowed) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
