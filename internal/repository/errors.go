// Package repository implements persistence for the platform's five
// resource families over database/sql. Every repository reports
// failures from the small closed set defined here so that handlers
// switch on structured outcomes instead of pattern-matching driver
// error strings.
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the target row (or a row a read
// depends on) does not exist. Handlers translate it to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForeignKey is returned when an insert or update references a
// row that does not exist (MySQL 1452). Handlers translate it to
// 404 or 400 depending on whether the reference came from the path
// or the body.
var ErrForeignKey = errors.New("referenced row does not exist")

// ErrConflict is returned when a conditional state transition finds
// the row in the wrong state, e.g. joining a team while already
// affiliated, or deleting a row that dependent rows still reference
// (MySQL 1451). Handlers translate it to HTTP 409.
var ErrConflict = errors.New("conflicting state")

// UniqueViolationError is returned when an insert or update trips a
// unique key (MySQL 1062). Field names the violated key so handlers
// can report which value collided.
type UniqueViolationError struct {
	Field string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique violation on %s", e.Field)
}

// IsUnique reports whether err is a unique violation on the given
// field. An empty field matches any unique violation.
func IsUnique(err error, field string) bool {
	var uv *UniqueViolationError
	if !errors.As(err, &uv) {
		return false
	}
	return field == "" || uv.Field == field
}

// translateErr converts driver-level errors into the closed outcome
// set above. It is the only place in the module that knows MySQL
// error numbers.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case 1062:
			return &UniqueViolationError{Field: uniqueField(me.Message)}
		case 1452:
			return ErrForeignKey
		case 1451:
			return ErrConflict
		}
	}
	return err
}

// uniqueField extracts the key name from a 1062 message of the form
// "Duplicate entry 'x' for key 'table.key_name'".
func uniqueField(msg string) string {
	i := strings.LastIndex(msg, "for key '")
	if i < 0 {
		return ""
	}
	key := strings.TrimSuffix(msg[i+len("for key '"):], "'")
	if j := strings.LastIndex(key, "."); j >= 0 {
		key = key[j+1:]
	}
	return key
}
