package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/devsoc/hackathon-platform/internal/model"
)

// ProjectRepo persists projects. The unique key on projects.team_id
// carries the one-project-per-team invariant: the second concurrent
// create for a team commits into a 1062 and comes back as a
// UniqueViolationError{"team_id"}.
type ProjectRepo struct{ DB *sql.DB }

func NewProjectRepo(db *sql.DB) *ProjectRepo { return &ProjectRepo{DB: db} }

const projectCols = "id, name, description, team_id, repo_url, demo_url, report_url, image_id, created_at, updated_at"

func scanProjectRow(row interface{ Scan(...any) error }) (model.Project, error) {
	var p model.Project
	var repoURL, demoURL, reportURL, imageID sql.NullString
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.TeamID,
		&repoURL, &demoURL, &reportURL, &imageID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Project{}, err
	}
	if repoURL.Valid {
		p.RepoURL = &repoURL.String
	}
	if demoURL.Valid {
		p.DemoURL = &demoURL.String
	}
	if reportURL.Valid {
		p.ReportURL = &reportURL.String
	}
	if imageID.Valid {
		p.ImageID = &imageID.String
	}
	return p, nil
}

// Create inserts a project for a team. UniqueViolationError on
// team_id when the team already has one, ErrForeignKey when the team
// does not exist.
func (r *ProjectRepo) Create(ctx context.Context, name, description, teamID string) (model.Project, error) {
	id := uuid.NewString()
	if _, err := r.DB.ExecContext(ctx,
		"INSERT INTO projects (id, name, description, team_id) VALUES (?,?,?,?)",
		id, name, description, teamID); err != nil {
		return model.Project{}, translateErr(err)
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a project by id.
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (model.Project, error) {
	p, err := scanProjectRow(r.DB.QueryRowContext(ctx,
		"SELECT "+projectCols+" FROM projects WHERE id=? LIMIT 1", id))
	if err != nil {
		return model.Project{}, translateErr(err)
	}
	return p, nil
}

// GetByTeam fetches the project owned by a team, ErrNotFound when
// the team has none.
func (r *ProjectRepo) GetByTeam(ctx context.Context, teamID string) (model.Project, error) {
	p, err := scanProjectRow(r.DB.QueryRowContext(ctx,
		"SELECT "+projectCols+" FROM projects WHERE team_id=? LIMIT 1", teamID))
	if err != nil {
		return model.Project{}, translateErr(err)
	}
	return p, nil
}

// List returns all projects, newest first.
func (r *ProjectRepo) List(ctx context.Context) ([]model.Project, error) {
	return r.listWhere(ctx, "")
}

func (r *ProjectRepo) listWhere(ctx context.Context, where string, args ...any) ([]model.Project, error) {
	q := "SELECT " + projectCols + " FROM projects"
	if where != "" {
		q += " WHERE " + where
	}
	q += " ORDER BY created_at DESC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()
	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProjectRow(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ProjectUpdate carries the mutable project fields; nil pointers
// leave the column untouched.
type ProjectUpdate struct {
	Name        *string
	Description *string
	RepoURL     *string
	DemoURL     *string
	ReportURL   *string
	ImageID     *string
}

// Update applies a partial update and returns the fresh row.
func (r *ProjectRepo) Update(ctx context.Context, id string, u ProjectUpdate) (model.Project, error) {
	if _, err := r.DB.ExecContext(ctx,
		`UPDATE projects SET
			name        = COALESCE(?, name),
			description = COALESCE(?, description),
			repo_url    = COALESCE(?, repo_url),
			demo_url    = COALESCE(?, demo_url),
			report_url  = COALESCE(?, report_url),
			image_id    = COALESCE(?, image_id)
		WHERE id = ?`,
		u.Name, u.Description, u.RepoURL, u.DemoURL, u.ReportURL, u.ImageID, id); err != nil {
		return model.Project{}, translateErr(err)
	}
	// MySQL reports changed rows, not matched rows, so rows-affected
	// cannot distinguish "no such project" from "nothing differed".
	// The read we need for the response settles it: ErrNotFound here
	// means the id was unknown.
	return r.GetByID(ctx, id)
}

// Delete removes a project and, via CASCADE, its evaluations.
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM projects WHERE id=?", id)
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
