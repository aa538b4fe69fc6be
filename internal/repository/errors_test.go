package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestTranslateErr(t *testing.T) {
	assert.NoError(t, translateErr(nil))
	assert.ErrorIs(t, translateErr(sql.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, translateErr(&mysql.MySQLError{Number: 1452}), ErrForeignKey)
	assert.ErrorIs(t, translateErr(&mysql.MySQLError{Number: 1451}), ErrConflict)

	// Unknown driver errors pass through untouched.
	other := errors.New("server has gone away")
	assert.Equal(t, other, translateErr(other))
	raw := &mysql.MySQLError{Number: 1205, Message: "lock wait timeout"}
	assert.Equal(t, error(raw), translateErr(raw))
}

func TestTranslateErrUniqueViolation(t *testing.T) {
	err := translateErr(&mysql.MySQLError{
		Number:  1062,
		Message: "Duplicate entry 't-1' for key 'projects.team_id'",
	})
	var uv *UniqueViolationError
	assert.ErrorAs(t, err, &uv)
	assert.Equal(t, "team_id", uv.Field)
	assert.True(t, IsUnique(err, "team_id"))
	assert.True(t, IsUnique(err, ""))
	assert.False(t, IsUnique(err, "email"))
}

func TestTranslateErrUniqueViolationWrapped(t *testing.T) {
	inner := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.c' for key 'accounts.email'"}
	err := translateErr(fmt.Errorf("register: %w", inner))
	assert.True(t, IsUnique(err, "email"))
}

func TestUniqueField(t *testing.T) {
	cases := []struct {
		msg  string
		want string
	}{
		{"Duplicate entry 'x' for key 'users.reg_num'", "reg_num"},
		{"Duplicate entry 'x' for key 'email'", "email"},
		{"some other message", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, uniqueField(tc.msg), tc.msg)
	}
}

func TestIsUniqueNonUniqueErrors(t *testing.T) {
	assert.False(t, IsUnique(nil, ""))
	assert.False(t, IsUnique(ErrConflict, ""))
	assert.False(t, IsUnique(errors.New("boom"), ""))
}
