package model

import "time"

// User represents a participant profile as stored in the `users`
// table. Every user belongs to exactly one Account (same UUID) and
// optionally references a team through TeamID. IsLeader is only
// meaningful while TeamID is set; leaving or being removed from a
// team always clears both together.
//
// Fields:
//  ID        – primary key (UUID, equals accounts.id).
//  AccountID – owning account (users.account_id).
//  Name      – display name.
//  Role      – one of SUPER_ADMIN, ADMIN, EVALUATOR, USER.
//  RegNum    – unique college registration number.
//  Phone     – contact number.
//  College   – college name.
//  Github    – optional GitHub profile URL.
//  ImageID   – optional profile image reference.
//  IsLeader  – true when the user leads the team in TeamID.
//  TeamID    – current team membership (null when unaffiliated).
type User struct {
	ID        string    `json:"id"`        // users.id
	AccountID string    `json:"authId"`    // users.account_id
	Name      string    `json:"name"`      // users.name
	Role      string    `json:"role"`      // users.role
	RegNum    string    `json:"regNum"`    // users.reg_num
	Phone     string    `json:"phone"`     // users.phone
	College   string    `json:"college"`   // users.college
	Github    *string   `json:"github"`    // users.github (nullable)
	ImageID   *string   `json:"imageId"`   // users.image_id (nullable)
	IsLeader  bool      `json:"isLeader"`  // users.is_leader
	TeamID    *string   `json:"teamId"`    // users.team_id (nullable)
	CreatedAt time.Time `json:"createdAt"` // users.created_at
	UpdatedAt time.Time `json:"updatedAt"` // users.updated_at
}
