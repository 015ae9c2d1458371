package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatehub/estatehub-admin/internal/crypto"
	"github.com/estatehub/estatehub-admin/internal/repository"
)

var userColumns = []string{"id", "email", "password", "first_name", "last_name", "phone", "user_type", "created_at"}

func newTestAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return NewAuthService(repository.NewUserRepository(db), "test-secret", time.Hour), mock
}

func expectUser(t *testing.T, mock sqlmock.Sqlmock, email, password, userType string) {
	hash, err := crypto.HashPassword(password, testHashCost)
	require.NoError(t, err)
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \?`).
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(7, email, hash, "Ada", "Min", "", userType, time.Now()))
}

func TestAuthenticate_EmptyCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Authenticate(context.Background(), "", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "admin@x.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_Admin(t *testing.T) {
	svc, mock := newTestAuthService(t)
	expectUser(t, mock, "admin@x.com", "password123", "admin")

	actor, err := svc.Authenticate(context.Background(), " Admin@X.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, int64(7), actor.UserID)
	assert.Equal(t, "admin@x.com", actor.Email)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	svc, mock := newTestAuthService(t)
	expectUser(t, mock, "admin@x.com", "password123", "admin")

	_, err := svc.Authenticate(context.Background(), "admin@x.com", "password124")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_NonAdminRejected(t *testing.T) {
	svc, mock := newTestAuthService(t)
	expectUser(t, mock, "agent@x.com", "password123", "agent")

	_, err := svc.Authenticate(context.Background(), "agent@x.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	svc, mock := newTestAuthService(t)
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \?`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := svc.Authenticate(context.Background(), "ghost@x.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_IssuesAdminToken(t *testing.T) {
	svc, mock := newTestAuthService(t)
	expectUser(t, mock, "admin@x.com", "password123", "admin")

	token, actor, err := svc.Login(context.Background(), "admin@x.com", "password123")
	require.NoError(t, err)

	claims, err := crypto.ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, actor.UserID, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}
