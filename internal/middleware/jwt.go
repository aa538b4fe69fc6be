package middleware // middleware provides reusable HTTP middleware for the API

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5" // JWT parsing and validation
	"github.com/labstack/echo/v4"  // Echo framework types

	"github.com/devsoc/hackathon-platform/internal/authz"
)

// Context keys under which JWTAuth stores the verified principal's
// claims. Handlers should not read these directly; Principal()
// rebuilds the typed value.
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// JWTAuth returns middleware that validates a Bearer access token
// and stores the subject id and role claims in the request context.
// A missing or non-Bearer Authorization header is rejected before
// any verification is attempted; an expired token is reported
// separately from a malformed or badly signed one, but both come
// back as 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				// Only HS256 tokens are ever issued; reject anything else.
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				if errors.Is(err, jwt.ErrTokenExpired) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token expired"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			sub, _ := claims["sub"].(string)
			role, _ := claims["role"].(string)
			if sub == "" || !authz.ValidRole(role) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			c.Set(ctxUserID, sub)
			c.Set(ctxRole, role)
			return next(c)
		}
	}
}

// Principal rebuilds the authenticated principal from the values
// JWTAuth stored. The boolean is false when the route was reached
// without JWTAuth, which is a wiring bug the handler should answer
// with 401.
func Principal(c echo.Context) (authz.Principal, bool) {
	uid, _ := c.Get(ctxUserID).(string)
	role, _ := c.Get(ctxRole).(string)
	if uid == "" || !authz.ValidRole(role) {
		return authz.Principal{}, false
	}
	return authz.Principal{UserID: uid, Role: authz.Role(role)}, true
}
