package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/devsoc/hackathon-platform/internal/authz"
	"github.com/devsoc/hackathon-platform/internal/repository"
)

// ProjectHandler serves project reads and mutations. The one-
// project-per-team invariant rides on the unique key over
// projects.team_id; the second creator gets a 409 even when both
// raced past the permission check.
type ProjectHandler struct {
	Projects *repository.ProjectRepo
	Users    *repository.UserRepo
	Engine   *authz.Engine
}

func NewProjectHandler(pr *repository.ProjectRepo, u *repository.UserRepo, e *authz.Engine) *ProjectHandler {
	if pr == nil || u == nil || e == nil {
		panic("nil dependency passed to NewProjectHandler")
	}
	return &ProjectHandler{Projects: pr, Users: u, Engine: e}
}

type createProjectReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TeamID      string `json:"teamId"`
}

// Create makes a team's project. A USER must lead the target team;
// ADMIN and SUPER_ADMIN may create for any team.
func (h *ProjectHandler) Create(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	var req createProjectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.TeamID = strings.TrimSpace(req.TeamID)
	if req.Name == "" || req.TeamID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and teamId required"})
	}
	if ok, err := authorize(c, h.Engine, p, authz.ActionProjectCreate, authz.Resource{TeamID: req.TeamID}); !ok {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	project, err := h.Projects.Create(ctx, req.Name, req.Description, req.TeamID)
	if err != nil {
		if repository.IsUnique(err, "team_id") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "team already has a project"})
		}
		return storeErr(c, err, "team not found", "project conflicts with an existing one")
	}
	return c.JSON(http.StatusCreated, project)
}

// Current returns the project of the caller's team (USER only).
func (h *ProjectHandler) Current(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	if ok, err := authorize(c, h.Engine, p, authz.ActionProjectCurrent, authz.Resource{}); !ok {
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
	project, err := h.Projects.GetByTeam(ctx, teamID)
	if err != nil {
		return storeErr(c, err, "team has no project", "")
	}
	return c.JSON(http.StatusOK, project)
}

// List returns all projects (SUPER_ADMIN, ADMIN, EVALUATOR).
func (h *ProjectHandler) List(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	if ok, err := authorize(c, h.Engine, p, authz.ActionProjectList, authz.Resource{}); !ok {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	projects, err := h.Projects.List(ctx)
	if err != nil {
		return storeErr(c, err, "", "")
	}
	return c.JSON(http.StatusOK, projects)
}

// Get returns one project; a USER only their own team's.
func (h *ProjectHandler) Get(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	id := c.Param("id")
	if ok, err := authorize(c, h.Engine, p, authz.ActionProjectGet, authz.Resource{ProjectID: id}); !ok {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	project, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		return storeErr(c, err, "project not found", "")
	}
	return c.JSON(http.StatusOK, project)
}

type updateProjectReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	RepoURL     *string `json:"repoUrl"`
	DemoURL     *string `json:"demoUrl"`
	ReportURL   *string `json:"reportUrl"`
	ImageID     *string `json:"imageId"`
}

// Update applies a partial update; a USER only on their own team's
// project.
func (h *ProjectHandler) Update(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	id := c.Param("id")
	if ok, err := authorize(c, h.Engine, p, authz.ActionProjectUpdate, authz.Resource{ProjectID: id}); !ok {
		return err
	}
	var req updateProjectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	project, err := h.Projects.Update(ctx, id, repository.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
		RepoURL:     req.RepoURL,
		DemoURL:     req.DemoURL,
		ReportURL:   req.ReportURL,
		ImageID:     req.ImageID,
	})
	if err != nil {
		return storeErr(c, err, "project not found", "project conflicts with an existing one")
	}
	return c.JSON(http.StatusOK, project)
}

// Delete removes a project (ADMIN, SUPER_ADMIN).
func (h *ProjectHandler) Delete(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	if ok, err := authorize(c, h.Engine, p, authz.ActionProjectDelete, authz.Resource{}); !ok {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Projects.Delete(ctx, c.Param("id")); err != nil {
		return storeErr(c, err, "project not found", "")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "project deleted"})
}
