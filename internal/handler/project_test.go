package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devsoc/hackathon-platform/internal/authz"
	"github.com/devsoc/hackathon-platform/internal/repository"
)

func newProjectHandler(t *testing.T, r authz.Resolver) (*ProjectHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newDB(t)
	return NewProjectHandler(repository.NewProjectRepo(db), repository.NewUserRepo(db), authz.NewEngine(r)), mock
}

func TestCreateProjectAsLeader(t *testing.T) {
	h, mock := newProjectHandler(t, stubResolver{leader: true})
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO projects").
		WithArgs(sqlmock.AnyArg(), "rocket-app", "a thing", "t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM projects WHERE id=\\?").
		WillReturnRows(sqlmock.NewRows(teamProjectCols).
			AddRow("p-1", "rocket-app", "a thing", "t1", nil, nil, nil, nil, now, now))

	p := authz.Principal{UserID: "u1", Role: authz.RoleUser}
	c, rec := newRequest(http.MethodPost, "/v1/projects",
		`{"name":"rocket-app","description":"a thing","teamId":"t1"}`, &p)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProjectPlainMemberForbidden(t *testing.T) {
	h, mock := newProjectHandler(t, stubResolver{leader: false})

	p := authz.Principal{UserID: "u1", Role: authz.RoleUser}
	c, rec := newRequest(http.MethodPost, "/v1/projects",
		`{"name":"rocket-app","teamId":"t1"}`, &p)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The second project for a team trips the unique key, whoever won the
// race; the loser sees a 409.
func TestCreateProjectSecondForTeam(t *testing.T) {
	h, mock := newProjectHandler(t, stubResolver{leader: true})

	mock.ExpectExec("INSERT INTO projects").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 't1' for key 'projects.team_id'"})

	p := authz.Principal{UserID: "u1", Role: authz.RoleUser}
	c, rec := newRequest(http.MethodPost, "/v1/projects",
		`{"name":"rocket-app","teamId":"t1"}`, &p)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "team already has a project")
}

func TestCreateProjectUnknownTeam(t *testing.T) {
	h, mock := newProjectHandler(t, stubResolver{leader: true})

	mock.ExpectExec("INSERT INTO projects").
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "foreign key constraint fails"})

	p := authz.Principal{UserID: "u1", Role: authz.RoleUser}
	c, rec := newRequest(http.MethodPost, "/v1/projects",
		`{"name":"rocket-app","teamId":"t-ghost"}`, &p)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "team not found")
}

func TestGetProjectForeignTeamForbidden(t *testing.T) {
	h, mock := newProjectHandler(t, stubResolver{owns: false})

	p := authz.Principal{UserID: "u1", Role: authz.RoleUser}
	c, rec := newRequest(http.MethodGet, "/v1/projects/p-other", "", &p)
	c.SetParamNames("id")
	c.SetParamValues("p-other")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProjectOwnTeam(t *testing.T) {
	h, mock := newProjectHandler(t, stubResolver{owns: true})
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE projects SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM projects WHERE id=\\?").
		WillReturnRows(sqlmock.NewRows(teamProjectCols).
			AddRow("p-1", "renamed", "a thing", "t1", nil, nil, nil, nil, now, now))

	p := authz.Principal{UserID: "u1", Role: authz.RoleUser}
	c, rec := newRequest(http.MethodPatch, "/v1/projects/p-1", `{"name":"renamed"}`, &p)
	c.SetParamNames("id")
	c.SetParamValues("p-1")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "renamed")
}

func TestDeleteProjectUserForbidden(t *testing.T) {
	h, mock := newProjectHandler(t, stubResolver{owns: true, leader: true})

	p := authz.Principal{UserID: "u1", Role: authz.RoleUser}
	c, rec := newRequest(http.MethodDelete, "/v1/projects/p-1", "", &p)
	c.SetParamNames("id")
	c.SetParamValues("p-1")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
