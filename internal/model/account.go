package model

import "time"

// Account represents a login identity as stored in the `accounts`
// table. An account owns exactly one User profile; both rows are
// created together inside a single transaction at registration and
// share the same UUID. The password hash is never serialized.
//
// Fields:
//  ID           – primary key (UUID, shared with users.id).
//  Email        – unique login email, stored lowercased.
//  PasswordHash – bcrypt hash of the password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Account struct {
	ID           string    `json:"id"`    // accounts.id
	Email        string    `json:"email"` // accounts.email
	PasswordHash string    `json:"-"`     // accounts.password_hash
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
