package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatehub/estatehub-admin/internal/model"
	"github.com/estatehub/estatehub-admin/internal/repository"
)

func newTestAgentService(db *sql.DB) *AgentService {
	return NewAgentService(db, repository.NewUserRepository(db), repository.NewAgentRepository(db), testHashCost)
}

func validAgentInput() model.AgentInput {
	return model.AgentInput{
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           "Jane@X.com ",
		LicenseNumber:   "L1",
		Brokerage:       "Acme Realty",
		ExperienceYears: "5",
		Specialties:     "luxury condos",
	}
}

func TestCreateAgent_EmptyFirstName(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestAgentService(db)

	_, err := svc.CreateAgent(context.Background(), testActor, model.AgentInput{
		FirstName:     "",
		LastName:      "Doe",
		Email:         "a@b.com",
		LicenseNumber: "L1",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("first_name"))
	assert.Equal(t, []string{"First name is required"}, verr.Messages())
	assert.NoError(t, mock.ExpectationsWereMet(), "no query may run on invalid input")
}

func TestCreateAgent_CollectsAllViolations(t *testing.T) {
	db, _ := newMockDB(t)
	svc := newTestAgentService(db)

	_, err := svc.CreateAgent(context.Background(), testActor, model.AgentInput{
		Email:           "not-an-email",
		ExperienceYears: "61",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, len(verr.Violations))
	for i, v := range verr.Violations {
		fields[i] = v.Field
	}
	assert.Equal(t, []string{"first_name", "last_name", "email", "license_number", "experience_years"}, fields)
}

func TestCreateAgent_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestAgentService(db)

	expectEmailLookup(mock, "jane@x.com", 1)

	_, err := svc.CreateAgent(context.Background(), testActor, validAgentInput())

	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "email", cerr.Field)
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet(), "no transaction may start")
}

func TestCreateAgent_GeneratesPassword(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestAgentService(db)
	hash := &hashArg{}

	expectEmailLookup(mock, "jane@x.com", 0)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("jane@x.com", hash, "Jane", "Doe", sql.NullString{}, "agent").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec(`INSERT INTO agents`).
		WithArgs(int64(12), "L1", "Acme Realty", 5, "luxury condos").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	res, err := svc.CreateAgent(context.Background(), testActor, validAgentInput())
	require.NoError(t, err)

	assert.Equal(t, int64(12), res.UserID)
	assert.Equal(t, int64(3), res.AgentID)
	assert.Len(t, res.GeneratedPassword, 16)
	assert.Regexp(t, `^[0-9a-f]{16}$`, res.GeneratedPassword)
	assert.True(t, hash.verifies(res.GeneratedPassword), "stored hash must verify the generated password")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAgent_UsesSubmittedPassword(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestAgentService(db)
	hash := &hashArg{}

	in := validAgentInput()
	in.Password = "s3cret-pass"
	in.ExperienceYears = ""

	expectEmailLookup(mock, "jane@x.com", 0)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("jane@x.com", hash, "Jane", "Doe", sql.NullString{}, "agent").
		WillReturnResult(sqlmock.NewResult(13, 1))
	mock.ExpectExec(`INSERT INTO agents`).
		WithArgs(int64(13), "L1", "Acme Realty", 0, "luxury condos").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectCommit()

	res, err := svc.CreateAgent(context.Background(), testActor, in)
	require.NoError(t, err)

	assert.Empty(t, res.GeneratedPassword)
	assert.True(t, hash.verifies("s3cret-pass"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAgent_AgentInsertFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestAgentService(db)

	expectEmailLookup(mock, "jane@x.com", 0)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec(`INSERT INTO agents`).WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	_, err := svc.CreateAgent(context.Background(), testActor, validAgentInput())

	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "create agent", serr.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAgent_ConcurrentDuplicateIsConflict(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestAgentService(db)

	expectEmailLookup(mock, "jane@x.com", 0)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'jane@x.com' for key 'uq_users_email'"})
	mock.ExpectRollback()

	_, err := svc.CreateAgent(context.Background(), testActor, validAgentInput())

	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
