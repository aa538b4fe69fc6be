package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/devsoc/hackathon-platform/internal/authz"
	"github.com/devsoc/hackathon-platform/internal/repository"
)

// UserHandler serves user profile reads and mutations. Every
// instance-scoped operation goes through the engine first.
type UserHandler struct {
	Users    *repository.UserRepo
	Accounts *repository.AccountRepo
	Engine   *authz.Engine
}

func NewUserHandler(u *repository.UserRepo, a *repository.AccountRepo, e *authz.Engine) *UserHandler {
	if u == nil || a == nil || e == nil {
		panic("nil dependency passed to NewUserHandler")
	}
	return &UserHandler{Users: u, Accounts: a, Engine: e}
}

// Me returns the caller's own profile.
func (h *UserHandler) Me(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	u, err := h.Users.GetByID(ctx, p.UserID)
	if err != nil {
		// The credential was valid but the subject row is gone:
		// stale token for a deleted user.
		return storeErr(c, err, "user not found", "")
	}
	return c.JSON(http.StatusOK, u)
}

// List returns all users (ADMIN, SUPER_ADMIN).
func (h *UserHandler) List(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	if ok, err := authorize(c, h.Engine, p, authz.ActionUserList, authz.Resource{}); !ok {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	users, err := h.Users.List(ctx)
	if err != nil {
		return storeErr(c, err, "", "")
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns a user by id (ADMIN, SUPER_ADMIN, EVALUATOR).
func (h *UserHandler) Get(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	if ok, err := authorize(c, h.Engine, p, authz.ActionUserGet, authz.Resource{}); !ok {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	u, err := h.Users.GetByID(ctx, c.Param("id"))
	if err != nil {
		return storeErr(c, err, "user not found", "")
	}
	return c.JSON(http.StatusOK, u)
}

type updateUserReq struct {
	Name    *string `json:"name"`
	RegNum  *string `json:"regNum"`
	Phone   *string `json:"phone"`
	College *string `json:"college"`
	Github  *string `json:"github"`
	ImageID *string `json:"imageId"`
}

// Update applies a partial profile update. Allowed for ADMIN and
// SUPER_ADMIN on anyone, and for a USER on their own record.
func (h *UserHandler) Update(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	id := c.Param("id")
	if ok, err := authorize(c, h.Engine, p, authz.ActionUserUpdate, authz.Resource{OwnerID: id}); !ok {
		return err
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Users.UpdateProfile(ctx, id, repository.ProfileUpdate{
		Name:    req.Name,
		RegNum:  req.RegNum,
		Phone:   req.Phone,
		College: req.College,
		Github:  req.Github,
		ImageID: req.ImageID,
	}); err != nil {
		return storeErr(c, err, "user not found", "one or more fields conflict with another user")
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return storeErr(c, err, "user not found", "")
	}
	return c.JSON(http.StatusOK, u)
}

type promoteReq struct {
	Role string `json:"role"`
}

// Promote sets a user's role (SUPER_ADMIN only). The same endpoint
// demotes; the body names the target role outright.
func (h *UserHandler) Promote(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	if ok, err := authorize(c, h.Engine, p, authz.ActionUserPromote, authz.Resource{}); !ok {
		return err
	}
	var req promoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if !authz.ValidRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Users.UpdateRole(ctx, c.Param("id"), role); err != nil {
		return storeErr(c, err, "user not found", "")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user role updated"})
}

// Delete removes a user's account and everything hanging off it
// (ADMIN, SUPER_ADMIN).
func (h *UserHandler) Delete(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	if ok, err := authorize(c, h.Engine, p, authz.ActionUserDelete, authz.Resource{}); !ok {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Accounts.Delete(ctx, c.Param("id")); err != nil {
		return storeErr(c, err, "user not found", "")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
