package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devsoc/hackathon-platform/internal/authz"
	"github.com/devsoc/hackathon-platform/internal/middleware"
	"github.com/devsoc/hackathon-platform/internal/repository"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// principal pulls the authenticated principal from the request
// context. Reaching a protected handler without one is a routing
// bug, answered as 401 rather than a panic. ok reports whether the
// caller may proceed; when false the 401 has already been written,
// so callers must stop on ok, not on err (a successful JSON write
// returns a nil error).
func principal(c echo.Context) (authz.Principal, bool, error) {
	p, ok := middleware.Principal(c)
	if !ok {
		return authz.Principal{}, false, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return p, true, nil
}

// denied writes the transport response for an engine denial. The
// engine's reason tags map 1:1 onto statuses; handlers never invent
// their own mapping.
func denied(c echo.Context, d authz.Decision) error {
	switch d.Reason {
	case authz.ReasonUnauthenticated:
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	case authz.ReasonNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	default:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
}

// authorize runs the engine and writes the denial response itself.
// ok is true only when the caller may proceed; when false the
// response has already been written. Permission is always decided
// before any handler touches the target row, so a caller lacking
// access cannot probe for existence or state.
func authorize(c echo.Context, e *authz.Engine, p authz.Principal, a authz.Action, res authz.Resource) (bool, error) {
	ctx, cancel := reqCtx(c)
	defer cancel()
	d, err := e.Authorize(ctx, p, a, res)
	if err != nil {
		return false, c.JSON(http.StatusInternalServerError, echo.Map{"error": "authorization check failed"})
	}
	if !d.Allowed {
		return false, denied(c, d)
	}
	return true, nil
}

// storeErr maps the repository layer's typed outcomes to transport
// statuses. notFoundMsg/conflictMsg customize the client-facing
// wording per call site; the fallback is a generic 500 that leaks no
// internals.
func storeErr(c echo.Context, err error, notFoundMsg, conflictMsg string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": notFoundMsg})
	case errors.Is(err, repository.ErrConflict), repository.IsUnique(err, ""):
		return c.JSON(http.StatusConflict, echo.Map{"error": conflictMsg})
	case errors.Is(err, repository.ErrForeignKey):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": notFoundMsg})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
