package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devsoc/hackathon-platform/internal/authz"
	"github.com/devsoc/hackathon-platform/internal/queue"
	"github.com/devsoc/hackathon-platform/internal/repository"
	queuepublisher "github.com/devsoc/hackathon-platform/internal/service"
)

// maxScore bounds evaluation scores; the interval is closed on both
// ends, so 0 and 10 are valid and 11 is not.
const maxScore = 10

// EvaluationHandler serves score submission and retrieval. Scores
// are validated before any database touch, and a successful upsert
// emits an event to the broker for the audit consumer.
type EvaluationHandler struct {
	Evaluations *repository.EvaluationRepo
	Engine      *authz.Engine
	Publish     func(ctx context.Context, ev queue.EvaluationSubmittedEvent) error
}

func NewEvaluationHandler(ev *repository.EvaluationRepo, e *authz.Engine) *EvaluationHandler {
	if ev == nil || e == nil {
		panic("nil dependency passed to NewEvaluationHandler")
	}
	return &EvaluationHandler{
		Evaluations: ev,
		Engine:      e,
		Publish:     queuepublisher.PublishEvaluationSubmitted,
	}
}

type putEvaluationReq struct {
	ProjectID string `json:"projectId"`
	Score     *int   `json:"score"`
}

// Put creates or updates the caller's score for a project
// (SUPER_ADMIN, EVALUATOR). Resubmitting replaces the previous score
// in place; the (evaluator, project) pair never produces a second
// row.
func (h *EvaluationHandler) Put(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	if ok, err := authorize(c, h.Engine, p, authz.ActionEvaluationPut, authz.Resource{}); !ok {
		return err
	}
	var req putEvaluationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ProjectID == "" || req.Score == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "projectId and score required"})
	}
	if *req.Score < 0 || *req.Score > maxScore {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "score must be between 0 and 10"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	eval, err := h.Evaluations.Upsert(ctx, p.UserID, req.ProjectID, *req.Score)
	if err != nil {
		return storeErr(c, err, "project does not exist", "")
	}

	// Audit trail is best effort: a broker outage must not fail the
	// submission.
	go func(ev queue.EvaluationSubmittedEvent) {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pubCancel()
		if err := h.Publish(pubCtx, ev); err != nil {
			log.Printf("evaluation: publish event failed: %v", err)
		}
	}(queue.EvaluationSubmittedEvent{
		EvaluationID: eval.ID,
		ProjectID:    eval.ProjectID,
		EvaluatorID:  eval.UserID,
		Score:        eval.Score,
		SubmittedAt:  time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, eval)
}

// List returns every evaluation (SUPER_ADMIN, ADMIN, EVALUATOR).
func (h *EvaluationHandler) List(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	if ok, err := authorize(c, h.Engine, p, authz.ActionEvaluationList, authz.Resource{}); !ok {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	evals, err := h.Evaluations.ListAll(ctx)
	if err != nil {
		return storeErr(c, err, "", "")
	}
	return c.JSON(http.StatusOK, evals)
}

// GetByProject returns a project's evaluations. Elevated roles see
// any project's scores; a USER only their own team's.
func (h *EvaluationHandler) GetByProject(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	id := c.Param("id")
	if ok, err := authorize(c, h.Engine, p, authz.ActionEvaluationGet, authz.Resource{ProjectID: id}); !ok {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	evals, err := h.Evaluations.ListByProject(ctx, id)
	if err != nil {
		return storeErr(c, err, "", "")
	}
	return c.JSON(http.StatusOK, evals)
}

// Delete removes the caller's own evaluation of a project
// (SUPER_ADMIN, EVALUATOR).
func (h *EvaluationHandler) Delete(c echo.Context) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	if ok, err := authorize(c, h.Engine, p, authz.ActionEvaluationDelete, authz.Resource{}); !ok {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Evaluations.Delete(ctx, p.UserID, c.Param("id")); err != nil {
		return storeErr(c, err, "evaluation does not exist", "")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "evaluation deleted"})
}
