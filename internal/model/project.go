package model

import "time"

// Project represents a team's submission as stored in the
// `projects` table. The unique key on TeamID guarantees at most one
// project per team; a second insert for the same team surfaces as a
// unique violation, never as a silent overwrite.
//
// Fields:
//  ID          – primary key (UUID).
//  Name        – project name.
//  Description – short description.
//  TeamID      – owning team (projects.team_id, unique).
//  RepoURL     – optional repository link.
//  DemoURL     – optional live demo link.
//  ReportURL   – optional report link.
//  ImageID     – optional cover image reference.
type Project struct {
	ID          string    `json:"id"`          // projects.id
	Name        string    `json:"name"`        // projects.name
	Description string    `json:"description"` // projects.description
	TeamID      string    `json:"teamId"`      // projects.team_id
	RepoURL     *string   `json:"repoUrl"`     // projects.repo_url (nullable)
	DemoURL     *string   `json:"demoUrl"`     // projects.demo_url (nullable)
	ReportURL   *string   `json:"reportUrl"`   // projects.report_url (nullable)
	ImageID     *string   `json:"imageId"`     // projects.image_id (nullable)
	CreatedAt   time.Time `json:"createdAt"`   // projects.created_at
	UpdatedAt   time.Time `json:"updatedAt"`   // projects.updated_at
}
