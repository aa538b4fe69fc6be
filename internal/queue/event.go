// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// EvaluationSubmittedEvent is published after an evaluator's score
// is created or updated. It carries enough for downstream consumers
// to build an audit trail without querying the primary database.
type EvaluationSubmittedEvent struct {
	EvaluationID string `json:"evaluation_id"`
	ProjectID    string `json:"project_id"`
	EvaluatorID  string `json:"evaluator_id"`
	Score        int    `json:"score"`
	SubmittedAt  string `json:"submitted_at"`
}
