package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/devsoc/hackathon-platform/internal/model"
)

// EvaluationRepo persists evaluator scores. One score per
// (user_id, project_id), carried by a unique key: resubmitting
// updates the score in place instead of adding a row.
type EvaluationRepo struct{ DB *sql.DB }

func NewEvaluationRepo(db *sql.DB) *EvaluationRepo { return &EvaluationRepo{DB: db} }

const evaluationCols = "id, project_id, user_id, score, created_at, updated_at"

func scanEvaluation(row interface{ Scan(...any) error }) (model.Evaluation, error) {
	var e model.Evaluation
	err := row.Scan(&e.ID, &e.ProjectID, &e.UserID, &e.Score, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// Upsert writes userID's score for projectID, creating the row on
// first submission and updating it afterwards. ErrForeignKey when
// the project does not exist. Score bounds are the handler's
// responsibility; this layer stores what it is given.
func (r *EvaluationRepo) Upsert(ctx context.Context, userID, projectID string, score int) (model.Evaluation, error) {
	id := uuid.NewString()
	if _, err := r.DB.ExecContext(ctx,
		`INSERT INTO evaluations (id, project_id, user_id, score) VALUES (?,?,?,?)
		 ON DUPLICATE KEY UPDATE score = VALUES(score)`,
		id, projectID, userID, score); err != nil {
		return model.Evaluation{}, translateErr(err)
	}
	return r.Get(ctx, userID, projectID)
}

// Get fetches one evaluator's score for one project.
func (r *EvaluationRepo) Get(ctx context.Context, userID, projectID string) (model.Evaluation, error) {
	e, err := scanEvaluation(r.DB.QueryRowContext(ctx,
		"SELECT "+evaluationCols+" FROM evaluations WHERE user_id=? AND project_id=? LIMIT 1",
		userID, projectID))
	if err != nil {
		return model.Evaluation{}, translateErr(err)
	}
	return e, nil
}

// ListAll returns every evaluation.
func (r *EvaluationRepo) ListAll(ctx context.Context) ([]model.Evaluation, error) {
	return r.list(ctx, "SELECT "+evaluationCols+" FROM evaluations ORDER BY created_at DESC")
}

// ListByProject returns all evaluations for one project.
func (r *EvaluationRepo) ListByProject(ctx context.Context, projectID string) ([]model.Evaluation, error) {
	return r.list(ctx,
		"SELECT "+evaluationCols+" FROM evaluations WHERE project_id=? ORDER BY created_at DESC",
		projectID)
}

func (r *EvaluationRepo) list(ctx context.Context, q string, args ...any) ([]model.Evaluation, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()
	evals := []model.Evaluation{}
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evals = append(evals, e)
	}
	return evals, rows.Err()
}

// Delete removes the caller's own evaluation of a project.
// ErrNotFound when they never scored it.
func (r *EvaluationRepo) Delete(ctx context.Context, userID, projectID string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM evaluations WHERE user_id=? AND project_id=?", userID, projectID)
	if err != nil {
		return translateErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
