package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvalMock(t *testing.T) (sqlmock.Sqlmock, *EvaluationRepo) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return mock, NewEvaluationRepo(db)
}

var evalRowCols = []string{"id", "project_id", "user_id", "score", "created_at", "updated_at"}

func TestEvaluationUpsertReturnsStoredRow(t *testing.T) {
	mock, repo := newEvalMock(t)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO evaluations (id, project_id, user_id, score) VALUES (?,?,?,?)")).
		WithArgs(sqlmock.AnyArg(), "p1", "ev1", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM evaluations WHERE user_id=\\? AND project_id=\\?").
		WithArgs("ev1", "p1").
		WillReturnRows(sqlmock.NewRows(evalRowCols).AddRow("e-1", "p1", "ev1", 7, now, now))

	eval, err := repo.Upsert(context.Background(), "ev1", "p1", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, eval.Score)
	assert.Equal(t, "ev1", eval.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Resubmitting hits the duplicate key path inside MySQL; the read
// after the write returns the original row id with the new score.
func TestEvaluationUpsertKeepsRowIdentity(t *testing.T) {
	mock, repo := newEvalMock(t)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO evaluations").
		WillReturnResult(sqlmock.NewResult(0, 2)) // MySQL reports 2 on duplicate-key update
	mock.ExpectQuery("SELECT (.+) FROM evaluations WHERE user_id=\\? AND project_id=\\?").
		WillReturnRows(sqlmock.NewRows(evalRowCols).AddRow("e-original", "p1", "ev1", 9, now, now))

	eval, err := repo.Upsert(context.Background(), "ev1", "p1", 9)
	require.NoError(t, err)
	assert.Equal(t, "e-original", eval.ID)
	assert.Equal(t, 9, eval.Score)
}

func TestEvaluationUpsertUnknownProject(t *testing.T) {
	mock, repo := newEvalMock(t)

	mock.ExpectExec("INSERT INTO evaluations").
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "foreign key constraint fails"})

	_, err := repo.Upsert(context.Background(), "ev1", "p-missing", 5)
	assert.ErrorIs(t, err, ErrForeignKey)
}

func TestEvaluationDeleteNotFound(t *testing.T) {
	mock, repo := newEvalMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM evaluations WHERE user_id=? AND project_id=?")).
		WithArgs("ev1", "p1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "ev1", "p1"), ErrNotFound)
}

func TestEvaluationListByProject(t *testing.T) {
	mock, repo := newEvalMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM evaluations WHERE project_id=\\?").
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(evalRowCols).
			AddRow("e-1", "p1", "ev1", 7, now, now).
			AddRow("e-2", "p1", "ev2", 4, now, now))

	evals, err := repo.ListByProject(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, evals, 2)
	assert.Equal(t, "ev2", evals[1].UserID)
}
