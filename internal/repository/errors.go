package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation.
const mysqlDuplicateEntry = 1062

var (
	ErrUserNotFound = errors.New("user not found")
	ErrDuplicate    = errors.New("duplicate entry")
)

// isDuplicateEntryError reports whether err is a MySQL unique key violation.
func isDuplicateEntryError(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

// classify maps driver errors onto repository sentinels.
func classify(err error) error {
	if isDuplicateEntryError(err) {
		return errors.Join(ErrDuplicate, err)
	}
	return err
}
