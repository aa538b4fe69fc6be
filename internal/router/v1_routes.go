package router

import (
	"github.com/labstack/echo/v4"

	"github.com/devsoc/hackathon-platform/internal/authz"
	"github.com/devsoc/hackathon-platform/internal/handler"
	"github.com/devsoc/hackathon-platform/internal/middleware"
)

// gate builds the coarse role middleware for an action from the same
// rules table the engine decides with, so route gates can never drift
// from policy. Routes with a USER ownership path skip the gate; the
// engine's per-instance check is the real decision there.
func gate(a authz.Action) echo.MiddlewareFunc {
	return middleware.RequireRole(authz.AllowedRoles(a)...)
}

// RegisterUsers registers user routes on the protected group.
func RegisterUsers(auth *echo.Group, h *handler.UserHandler) {
	auth.GET("/users/me", h.Me)
	auth.GET("/users", h.List, gate(authz.ActionUserList))
	auth.GET("/users/:id", h.Get, gate(authz.ActionUserGet))
	auth.PATCH("/users/:id", h.Update)
	auth.POST("/users/:id/promote", h.Promote, gate(authz.ActionUserPromote))
	auth.DELETE("/users/:id", h.Delete, gate(authz.ActionUserDelete))
}

// RegisterTeams registers team lifecycle routes.
func RegisterTeams(auth *echo.Group, h *handler.TeamHandler) {
	auth.GET("/teams/current", h.Current)
	auth.POST("/teams", h.Create)
	auth.GET("/teams", h.List, gate(authz.ActionTeamList))
	auth.GET("/teams/:id", h.Get)
	auth.POST("/teams/:id/join", h.Join)
	auth.POST("/teams/leave", h.Leave)
	auth.POST("/teams/:id/members/remove", h.RemoveMember)
	auth.DELETE("/teams/:id", h.Delete, gate(authz.ActionTeamDelete))
}

// RegisterProjects registers project routes.
func RegisterProjects(auth *echo.Group, h *handler.ProjectHandler) {
	auth.GET("/projects/current", h.Current)
	auth.POST("/projects", h.Create)
	auth.GET("/projects", h.List, gate(authz.ActionProjectList))
	auth.GET("/projects/:id", h.Get)
	auth.PATCH("/projects/:id", h.Update)
	auth.DELETE("/projects/:id", h.Delete, gate(authz.ActionProjectDelete))
}

// RegisterEvaluations registers evaluation routes. The :id segment
// on get/delete is a project id: evaluations are addressed by
// (evaluator, project), and the evaluator is always the caller.
func RegisterEvaluations(auth *echo.Group, h *handler.EvaluationHandler) {
	auth.POST("/evaluations", h.Put, gate(authz.ActionEvaluationPut))
	auth.GET("/evaluations", h.List, gate(authz.ActionEvaluationList))
	auth.GET("/evaluations/:id", h.GetByProject)
	auth.DELETE("/evaluations/:id", h.Delete, gate(authz.ActionEvaluationDelete))
}
