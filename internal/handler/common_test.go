package handler

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/devsoc/hackathon-platform/internal/authz"
)

// newRequest builds an echo context the way the router would after
// JWTAuth ran: the principal's claims sit in the request context.
func newRequest(method, target, body string, p *authz.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(r, rec)
	if p != nil {
		c.Set("user_id", p.UserID)
		c.Set("role", string(p.Role))
	}
	return c, rec
}

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// stubResolver feeds fixed ownership answers into the engine so
// handler tests exercise the transport mapping, not the SQL.
type stubResolver struct {
	member bool
	leader bool
	owns   bool
	team   string
}

func (s stubResolver) IsTeamMember(ctx context.Context, userID, teamID string) (bool, error) {
	return s.member, nil
}

func (s stubResolver) IsTeamLeader(ctx context.Context, userID, teamID string) (bool, error) {
	return s.leader, nil
}

func (s stubResolver) OwnsProject(ctx context.Context, userID, projectID string) (bool, error) {
	return s.owns, nil
}

func (s stubResolver) CurrentTeamOf(ctx context.Context, userID string) (string, error) {
	return s.team, nil
}
