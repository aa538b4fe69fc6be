package model

import "time"

// Team represents a hackathon team as stored in the `teams` table.
// Membership is an edge on the users side (users.team_id); a team
// has at most one project, enforced by a unique key on
// projects.team_id.
//
// Fields:
//  ID      – primary key (UUID).
//  Name    – team name.
//  ImageID – optional team image reference.
//  Members – member users, populated by GetWithMembers/List.
//  Project – the team's project, nil while none exists.
type Team struct {
	ID        string    `json:"id"`      // teams.id
	Name      string    `json:"name"`    // teams.name
	ImageID   *string   `json:"imageId"` // teams.image_id (nullable)
	Members   []User    `json:"members"`
	Project   *Project  `json:"project,omitempty"`
	CreatedAt time.Time `json:"createdAt"` // teams.created_at
	UpdatedAt time.Time `json:"updatedAt"` // teams.updated_at
}
