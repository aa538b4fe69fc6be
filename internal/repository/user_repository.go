package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/devsoc/hackathon-platform/internal/model"
)

// UserRepo persists participant profiles and answers the ownership
// questions the authorization engine asks. It implements
// authz.Resolver.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id, account_id, name, role, reg_num, phone, college, github, image_id, is_leader, team_id, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	var github, imageID, teamID sql.NullString
	err := row.Scan(&u.ID, &u.AccountID, &u.Name, &u.Role, &u.RegNum, &u.Phone, &u.College,
		&github, &imageID, &u.IsLeader, &teamID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if github.Valid {
		u.Github = &github.String
	}
	if imageID.Valid {
		u.ImageID = &imageID.String
	}
	if teamID.Valid {
		u.TeamID = &teamID.String
	}
	return u, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id)
	u, err := scanUser(row)
	if err != nil {
		return model.User{}, translateErr(err)
	}
	return u, nil
}

// List returns all users, newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userCols+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()
	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ProfileUpdate carries the caller-editable profile fields. Nil
// pointers leave the column untouched; COALESCE keeps the statement
// a single round trip.
type ProfileUpdate struct {
	Name    *string
	RegNum  *string
	Phone   *string
	College *string
	Github  *string
	ImageID *string
}

// UpdateProfile applies a partial profile update. Returns
// ErrNotFound when the user does not exist and a
// UniqueViolationError when reg_num collides with another user.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET
			name    = COALESCE(?, name),
			reg_num = COALESCE(?, reg_num),
			phone   = COALESCE(?, phone),
			college = COALESCE(?, college),
			github  = COALESCE(?, github),
			image_id = COALESCE(?, image_id)
		WHERE id = ?`,
		p.Name, p.RegNum, p.Phone, p.College, p.Github, p.ImageID, id)
	if err != nil {
		return translateErr(err)
	}
	return r.requireMatched(ctx, res, id)
}

// UpdateRole sets a user's role. Only the promote handler calls
// this, and only for SUPER_ADMIN principals.
func (r *UserRepo) UpdateRole(ctx context.Context, id, role string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET role=? WHERE id=?", role, id)
	if err != nil {
		return translateErr(err)
	}
	return r.requireMatched(ctx, res, id)
}

// requireMatched maps a zero-rows-affected update to ErrNotFound.
// MySQL counts changed rows, not matched ones, so an update that
// wrote identical values also reports zero; a follow-up existence
// probe tells the two apart.
func (r *UserRepo) requireMatched(ctx context.Context, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var one int
	err = r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=? LIMIT 1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ----- authz.Resolver -----
//
// All predicates read current state on every call and answer false
// for subjects without a user row; "principal not found" is the
// handler's problem, not the resolver's.

func (r *UserRepo) IsTeamMember(ctx context.Context, userID, teamID string) (bool, error) {
	if userID == "" || teamID == "" {
		return false, nil
	}
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE id=? AND team_id=? LIMIT 1", userID, teamID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *UserRepo) IsTeamLeader(ctx context.Context, userID, teamID string) (bool, error) {
	if userID == "" || teamID == "" {
		return false, nil
	}
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE id=? AND team_id=? AND is_leader=1 LIMIT 1", userID, teamID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *UserRepo) OwnsProject(ctx context.Context, userID, projectID string) (bool, error) {
	if userID == "" || projectID == "" {
		return false, nil
	}
	var one int
	err := r.DB.QueryRowContext(ctx,
		`SELECT 1 FROM users u
		 JOIN projects p ON p.team_id = u.team_id
		 WHERE u.id=? AND p.id=? LIMIT 1`, userID, projectID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *UserRepo) CurrentTeamOf(ctx context.Context, userID string) (string, error) {
	var teamID sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT team_id FROM users WHERE id=? LIMIT 1", userID).Scan(&teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !teamID.Valid {
		return "", nil
	}
	return teamID.String, nil
}
