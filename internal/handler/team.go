package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/devsoc/hackathon-platform/internal/authz"
	"github.com/devsoc/hackathon-platform/internal/repository"
)

// TeamHandler serves team lifecycle operations. The one-team-per-
// user invariant lives in the repository's conditional updates; this
// layer decides permission first and maps typed outcomes to
// statuses.
type TeamHandler struct {
	Teams  *repository.TeamRepo
	Users  *repository.UserRepo
	Engine *authz.Engine
}

func NewTeamHandler(t *repository.TeamRepo, u *repository.UserRepo, e *authz.Engine) *TeamHandler {
	if t == nil || u == nil || e == nil {
		panic("nil dependency passed to NewTeamHandler")
	}
	return &TeamHandler{Teams: t, Users: u, Engine: e}
}

type createTeamReq struct {
	Name    string  `json:"name"`
	ImageID *string `json:"imageId"`
}

// Create makes a new team. A USER creator must be unaffiliated and
// becomes the leader; ADMIN and SUPER_ADMIN create detached teams.
func (h *TeamHandler) Create(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	if ok, err := authorize(c, h.Engine, p, authz.ActionTeamCreate, authz.Resource{}); !ok {
		return err
	}
	var req createTeamReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	leaderID := ""
	if p.Role == authz.RoleUser {
		leaderID = p.UserID
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	team, err := h.Teams.Create(ctx, name, req.ImageID, leaderID)
	if err != nil {
		return storeErr(c, err, "user not found", "already part of a team")
	}
	return c.JSON(http.StatusCreated, team)
}

// Current returns the caller's team (USER only).
func (h *TeamHandler) Current(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	if ok, err := authorize(c, h.Engine, p, authz.ActionTeamCurrent, authz.Resource{}); !ok {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	teamID, err := h.Users.CurrentTeamOf(ctx, p.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if teamID == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not part of any team"})
	}
	team, err := h.Teams.GetWithMembers(ctx, teamID)
	if err != nil {
		return storeErr(c, err, "team not found", "")
	}
	return c.JSON(http.StatusOK, team)
}

// List returns all teams (SUPER_ADMIN, ADMIN, EVALUATOR).
func (h *TeamHandler) List(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	if ok, err := authorize(c, h.Engine, p, authz.ActionTeamList, authz.Resource{}); !ok {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	teams, err := h.Teams.List(ctx)
	if err != nil {
		return storeErr(c, err, "", "")
	}
	return c.JSON(http.StatusOK, teams)
}

// Get returns one team. Elevated roles see any team; a USER only
// their own. The membership check runs before the existence lookup,
// so a non-member cannot distinguish a missing team from someone
// else's.
func (h *TeamHandler) Get(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	id := c.Param("id")
	if ok, err := authorize(c, h.Engine, p, authz.ActionTeamGet, authz.Resource{TeamID: id}); !ok {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	team, err := h.Teams.GetWithMembers(ctx, id)
	if err != nil {
		return storeErr(c, err, "team not found", "")
	}
	return c.JSON(http.StatusOK, team)
}

// Join attaches the calling USER to a team as a member.
func (h *TeamHandler) Join(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	if ok, err := authorize(c, h.Engine, p, authz.ActionTeamJoin, authz.Resource{}); !ok {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Teams.Join(ctx, p.UserID, c.Param("id")); err != nil {
		return storeErr(c, err, "team not found", "already part of a team")
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "joined team"})
}

// Leave detaches the calling USER from their team. Leaving while
// unaffiliated is a 409, not a no-op.
func (h *TeamHandler) Leave(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	if ok, err := authorize(c, h.Engine, p, authz.ActionTeamLeave, authz.Resource{}); !ok {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Teams.Leave(ctx, p.UserID); err != nil {
		return storeErr(c, err, "", "not part of any team")
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "left team"})
}

type removeMemberReq struct {
	UserID string `json:"userId"`
}

// RemoveMember detaches a member from a team. Elevated roles may do
// this anywhere; a USER only as leader of that team.
func (h *TeamHandler) RemoveMember(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	id := c.Param("id")
	if ok, err := authorize(c, h.Engine, p, authz.ActionTeamRemoveMember, authz.Resource{TeamID: id}); !ok {
		return err
	}
	var req removeMemberReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Teams.RemoveMember(ctx, req.UserID, id); err != nil {
		return storeErr(c, err, "user is not on this team", "")
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "user removed from team"})
}

// Delete removes a team (ADMIN, SUPER_ADMIN).
func (h *TeamHandler) Delete(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	if ok, err := authorize(c, h.Engine, p, authz.ActionTeamDelete, authz.Resource{}); !ok {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Teams.Delete(ctx, c.Param("id")); err != nil {
		return storeErr(c, err, "team not found", "")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "team deleted"})
}
