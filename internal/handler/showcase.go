package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devsoc/hackathon-platform/internal/repository"
)

// ShowcaseHandler serves the public, unauthenticated project
// listing. It sits behind the Redis response cache, so the handler
// itself stays a plain read.
type ShowcaseHandler struct {
	Projects *repository.ProjectRepo
}

func NewShowcaseHandler(pr *repository.ProjectRepo) *ShowcaseHandler {
	if pr == nil {
		panic("nil repository passed to NewShowcaseHandler")
	}
	return &ShowcaseHandler{Projects: pr}
}

// List returns all projects, newest first, for the public showcase.
func (h *ShowcaseHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	projects, err := h.Projects.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, projects)
}
