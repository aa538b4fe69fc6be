package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/devsoc/hackathon-platform/internal/authz"
	"github.com/devsoc/hackathon-platform/internal/config"
	"github.com/devsoc/hackathon-platform/internal/repository"
	"github.com/devsoc/hackathon-platform/internal/utils"
)

// AuthHandler bundles dependencies for registration, login and
// token refresh.
type AuthHandler struct {
	Cfg      config.Config
	Accounts *repository.AccountRepo
	Users    *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, a *repository.AccountRepo, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Accounts: a, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RegNum   string `json:"regNum"`
	Phone    string `json:"phone"`
	College  string `json:"college"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// Register creates the account and its user profile in one
// transaction and returns a token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password required"})
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = string(authz.RoleUser)
	}
	if !authz.ValidRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	id, err := h.Accounts.Register(ctx, repository.RegisterInput{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		RegNum:       strings.TrimSpace(req.RegNum),
		Phone:        strings.TrimSpace(req.Phone),
		College:      strings.TrimSpace(req.College),
	})
	if err != nil {
		if repository.IsUnique(err, "") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, id, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusCreated, tokenResp{Token: access.Token, UserID: id})
}

// Login verifies the password and returns a fresh token. An unknown
// email is a 404 and a wrong password a 403; the two are reported
// distinctly because registration status is public knowledge here
// (the register endpoint already reveals it via its 409).
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	acct, err := h.Accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return storeErr(c, err, "account not found", "")
	}
	if !utils.VerifyPassword(acct.PasswordHash, req.Password) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid password"})
	}

	u, err := h.Users.GetByID(ctx, acct.ID)
	if err != nil {
		return storeErr(c, err, "user not found", "")
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, acct.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{Token: access.Token, UserID: acct.ID})
}

// Refresh issues a new token from a still-valid one. Tokens are
// stateless, so this is just re-signing the current principal with a
// fresh expiry; an expired token cannot be refreshed.
func (h *AuthHandler) Refresh(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, p.UserID, string(p.Role), h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{Token: access.Token, UserID: p.UserID})
}
