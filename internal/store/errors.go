package store

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrDuplicate reports a UNIQUE or PRIMARY KEY violation.
	ErrDuplicate = errors.New("duplicate")
	// ErrReference reports a FOREIGN KEY violation.
	ErrReference = errors.New("dangling reference")
	// ErrConstraint reports a CHECK or NOT NULL violation.
	ErrConstraint = errors.New("constraint violation")
)

// classify maps SQLite constraint failures onto the package sentinels so
// callers can branch with errors.Is. Other errors are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}

	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return errors.Join(ErrDuplicate, err)
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return errors.Join(ErrReference, err)
	case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return errors.Join(ErrConstraint, err)
	}

	// Primary result code only (extended codes disabled).
	if se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := se.Error()
		switch {
		case strings.Contains(msg, "UNIQUE"):
			return errors.Join(ErrDuplicate, err)
		case strings.Contains(msg, "FOREIGN KEY"):
			return errors.Join(ErrReference, err)
		default:
			return errors.Join(ErrConstraint, err)
		}
	}
	return err
}
