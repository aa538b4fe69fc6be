package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/devsoc/hackathon-platform/internal/model"
)

// TeamRepo persists teams and the membership edge on users.team_id.
// The one-team-per-user invariant is carried by conditional updates
// (`... WHERE team_id IS NULL`) so that two concurrent create or
// join calls for the same user resolve to exactly one success; the
// loser sees zero rows affected and gets ErrConflict.
type TeamRepo struct{ DB *sql.DB }

func NewTeamRepo(db *sql.DB) *TeamRepo { return &TeamRepo{DB: db} }

// Create inserts a team. When leaderID is non-empty (a USER is
// creating the team) the creator is attached as leader in the same
// transaction; if they joined another team in the meantime the
// conditional update matches nothing, the transaction rolls back and
// ErrConflict is returned.
func (r *TeamRepo) Create(ctx context.Context, name string, imageID *string, leaderID string) (model.Team, error) {
	id := uuid.NewString()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Team{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO teams (id, name, image_id) VALUES (?,?,?)", id, name, imageID); err != nil {
		return model.Team{}, translateErr(err)
	}
	if leaderID != "" {
		res, err := tx.ExecContext(ctx,
			"UPDATE users SET team_id=?, is_leader=1 WHERE id=? AND team_id IS NULL", id, leaderID)
		if err != nil {
			return model.Team{}, translateErr(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return model.Team{}, err
		}
		if n == 0 {
			return model.Team{}, ErrConflict
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Team{}, translateErr(err)
	}
	return r.GetWithMembers(ctx, id)
}

// Join attaches an unaffiliated user to a team as a plain member.
// ErrConflict when the user is already on a team, ErrNotFound when
// the team id does not exist (foreign key miss).
func (r *TeamRepo) Join(ctx context.Context, userID, teamID string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET team_id=?, is_leader=0 WHERE id=? AND team_id IS NULL", teamID, userID)
	if err != nil {
		err = translateErr(err)
		if err == ErrForeignKey {
			return ErrNotFound
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// Leave detaches a user from whatever team they are on. A repeated
// leave is an error, not a no-op: ErrConflict when unaffiliated.
func (r *TeamRepo) Leave(ctx context.Context, userID string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET team_id=NULL, is_leader=0 WHERE id=? AND team_id IS NOT NULL", userID)
	if err != nil {
		return translateErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// RemoveMember detaches memberID from teamID. ErrNotFound when the
// user is not currently on that team.
func (r *TeamRepo) RemoveMember(ctx context.Context, memberID, teamID string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET team_id=NULL, is_leader=0 WHERE id=? AND team_id=?", memberID, teamID)
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

// GetWithMembers loads a team, its members and its project (if any).
func (r *TeamRepo) GetWithMembers(ctx context.Context, id string) (model.Team, error) {
	var t model.Team
	var imageID sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, image_id, created_at, updated_at FROM teams WHERE id=? LIMIT 1",
		id).Scan(&t.ID, &t.Name, &imageID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.Team{}, translateErr(err)
	}
	if imageID.Valid {
		t.ImageID = &imageID.String
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users WHERE team_id=? ORDER BY created_at", id)
	if err != nil {
		return model.Team{}, translateErr(err)
	}
	defer rows.Close()
	t.Members = []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return model.Team{}, err
		}
		t.Members = append(t.Members, u)
	}
	if err := rows.Err(); err != nil {
		return model.Team{}, err
	}

	p, err := scanProjectRow(r.DB.QueryRowContext(ctx,
		"SELECT "+projectCols+" FROM projects WHERE team_id=? LIMIT 1", id))
	if err != nil {
		if terr := translateErr(err); terr != ErrNotFound {
			return model.Team{}, terr
		}
	} else {
		t.Project = &p
	}
	return t, nil
}

// List returns all teams with members and projects, newest first.
func (r *TeamRepo) List(ctx context.Context) ([]model.Team, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id FROM teams ORDER BY created_at DESC")
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	teams := make([]model.Team, 0, len(ids))
	for _, id := range ids {
		t, err := r.GetWithMembers(ctx, id)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, nil
}

// Delete removes a team. Members are detached and the team's project
// and evaluations disappear via the schema's referential actions
// (SET NULL on users.team_id, CASCADE on projects.team_id).
func (r *TeamRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM teams WHERE id=?", id)
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
