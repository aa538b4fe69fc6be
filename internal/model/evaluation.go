package model

import "time"

// Evaluation represents one evaluator's score for one project, as
// stored in the `evaluations` table. The unique key on
// (user_id, project_id) makes resubmission an update in place
// rather than a duplicate row. Scores are integers in [0, 10].
//
// Fields:
//  ID        – primary key (UUID).
//  ProjectID – scored project (evaluations.project_id).
//  UserID    – the evaluator (evaluations.user_id).
//  Score     – score in the closed interval [0, 10].
type Evaluation struct {
	ID        string    `json:"id"`        // evaluations.id
	ProjectID string    `json:"projectId"` // evaluations.project_id
	UserID    string    `json:"userId"`    // evaluations.user_id
	Score     int       `json:"score"`     // evaluations.score
	CreatedAt time.Time `json:"createdAt"` // evaluations.created_at
	UpdatedAt time.Time `json:"updatedAt"` // evaluations.updated_at
}
