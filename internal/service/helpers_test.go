package service

import (
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/estatehub/estatehub-admin/internal/crypto"
	"github.com/estatehub/estatehub-admin/internal/model"
)

const testHashCost = bcrypt.MinCost

var testActor = model.Actor{UserID: 1, Email: "admin@estatehub.test"}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// hashArg matches a stored password column and remembers what was written.
type hashArg struct {
	stored string
}

func (a *hashArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	a.stored = s
	return ok && s != ""
}

// verifies reports whether the captured hash is not the plaintext and
// verifies against it.
func (a *hashArg) verifies(plain string) bool {
	if a.stored == "" || a.stored == plain {
		return false
	}
	ok, err := crypto.VerifyPassword(plain, a.stored)
	return err == nil && ok
}

func expectEmailLookup(mock sqlmock.Sqlmock, email string, count int) {
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE email = \?`).
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}
