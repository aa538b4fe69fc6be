package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devsoc/hackathon-platform/internal/authz"
	"github.com/devsoc/hackathon-platform/internal/repository"
)

func newTeamHandler(t *testing.T, r authz.Resolver) (*TeamHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newDB(t)
	return NewTeamHandler(repository.NewTeamRepo(db), repository.NewUserRepo(db), authz.NewEngine(r)), mock
}

var teamUserCols = []string{
	"id", "account_id", "name", "role", "reg_num", "phone", "college",
	"github", "image_id", "is_leader", "team_id", "created_at", "updated_at",
}

var teamProjectCols = []string{
	"id", "name", "description", "team_id", "repo_url", "demo_url",
	"report_url", "image_id", "created_at", "updated_at",
}

func expectTeamRead(mock sqlmock.Sqlmock, id, name string) {
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, name, image_id, created_at, updated_at FROM teams").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "image_id", "created_at", "updated_at"}).
			AddRow(id, name, nil, now, now))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE team_id=\\?").
		WillReturnRows(sqlmock.NewRows(teamUserCols))
	mock.ExpectQuery("SELECT (.+) FROM projects WHERE team_id=\\?").
		WillReturnRows(sqlmock.NewRows(teamProjectCols))
}

// A USER asking for a team they are not on gets 403 without any team
// lookup: the same answer whether the team exists or not.
func TestGetTeamNonMemberCannotProbeExistence(t *testing.T) {
	h, mock := newTeamHandler(t, stubResolver{member: false})

	p := authz.Principal{UserID: "u1", Role: authz.RoleUser}
	c, rec := newRequest(http.MethodGet, "/v1/teams/t-any", "", &p)
	c.SetParamNames("id")
	c.SetParamValues("t-any")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTeamMember(t *testing.T) {
	h, mock := newTeamHandler(t, stubResolver{member: true})
	expectTeamRead(mock, "t1", "rocket")

	p := authz.Principal{UserID: "u1", Role: authz.RoleUser}
	c, rec := newRequest(http.MethodGet, "/v1/teams/t1", "", &p)
	c.SetParamNames("id")
	c.SetParamValues("t1")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rocket")
}

func TestCreateTeamUserBecomesLeader(t *testing.T) {
	h, mock := newTeamHandler(t, stubResolver{})

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO teams").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET team_id=\\?, is_leader=1").
		WithArgs(sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectTeamRead(mock, "t1", "rocket")

	p := authz.Principal{UserID: "u1", Role: authz.RoleUser}
	c, rec := newRequest(http.MethodPost, "/v1/teams", `{"name":"rocket"}`, &p)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTeamWhileAffiliated(t *testing.T) {
	h, mock := newTeamHandler(t, stubResolver{})

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO teams").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET team_id=\\?, is_leader=1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	p := authz.Principal{UserID: "u1", Role: authz.RoleUser}
	c, rec := newRequest(http.MethodPost, "/v1/teams", `{"name":"rocket"}`, &p)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already part of a team")
}

// Admin-created teams are detached: no leader attach runs.
func TestCreateTeamAdminDetached(t *testing.T) {
	h, mock := newTeamHandler(t, stubResolver{})

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO teams").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectTeamRead(mock, "t1", "rocket")

	p := authz.Principal{UserID: "a1", Role: authz.RoleAdmin}
	c, rec := newRequest(http.MethodPost, "/v1/teams", `{"name":"rocket"}`, &p)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinTeamAlreadyAffiliated(t *testing.T) {
	h, mock := newTeamHandler(t, stubResolver{})

	mock.ExpectExec("UPDATE users SET team_id=\\?, is_leader=0").
		WillReturnResult(sqlmock.NewResult(0, 0))

	p := authz.Principal{UserID: "u1", Role: authz.RoleUser}
	c, rec := newRequest(http.MethodPost, "/v1/teams/t1/join", "", &p)
	c.SetParamNames("id")
	c.SetParamValues("t1")
	require.NoError(t, h.Join(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestJoinTeamElevatedForbidden(t *testing.T) {
	h, mock := newTeamHandler(t, stubResolver{})

	p := authz.Principal{UserID: "a1", Role: authz.RoleAdmin}
	c, rec := newRequest(http.MethodPost, "/v1/teams/t1/join", "", &p)
	c.SetParamNames("id")
	c.SetParamValues("t1")
	require.NoError(t, h.Join(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveTeamUnaffiliated(t *testing.T) {
	h, mock := newTeamHandler(t, stubResolver{})

	mock.ExpectExec("UPDATE users SET team_id=NULL, is_leader=0").
		WillReturnResult(sqlmock.NewResult(0, 0))

	p := authz.Principal{UserID: "u1", Role: authz.RoleUser}
	c, rec := newRequest(http.MethodPost, "/v1/teams/leave", "", &p)
	require.NoError(t, h.Leave(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "not part of any team")
}

func TestRemoveMemberAsLeader(t *testing.T) {
	h, mock := newTeamHandler(t, stubResolver{leader: true})

	mock.ExpectExec("UPDATE users SET team_id=NULL, is_leader=0").
		WithArgs("u2", "t1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := authz.Principal{UserID: "u1", Role: authz.RoleUser}
	c, rec := newRequest(http.MethodPost, "/v1/teams/t1/members/remove", `{"userId":"u2"}`, &p)
	c.SetParamNames("id")
	c.SetParamValues("t1")
	require.NoError(t, h.RemoveMember(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRemoveMemberPlainMemberForbidden(t *testing.T) {
	h, mock := newTeamHandler(t, stubResolver{leader: false})

	p := authz.Principal{UserID: "u1", Role: authz.RoleUser}
	c, rec := newRequest(http.MethodPost, "/v1/teams/t1/members/remove", `{"userId":"u2"}`, &p)
	c.SetParamNames("id")
	c.SetParamValues("t1")
	require.NoError(t, h.RemoveMember(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurrentTeamUnaffiliated(t *testing.T) {
	h, mock := newTeamHandler(t, stubResolver{})

	mock.ExpectQuery("SELECT team_id FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"team_id"}).AddRow(nil))

	p := authz.Principal{UserID: "u1", Role: authz.RoleUser}
	c, rec := newRequest(http.MethodGet, "/v1/teams/current", "", &p)
	require.NoError(t, h.Current(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not part of any team")
}
