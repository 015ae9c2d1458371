package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/estatehub/estatehub-admin/internal/model"
)

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// EmailExists reports whether a user with the given email is registered.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a new user using q and sets the generated ID on the user struct.
func (r *UserRepository) Create(ctx context.Context, q DBTX, user *model.User) error {
	query := `INSERT INTO users (email, password, first_name, last_name, phone, user_type)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := q.ExecContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		nullString(user.Phone),
		string(user.UserType),
	)
	if err != nil {
		return classify(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	user.ID = id
	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, email, password, first_name, last_name, COALESCE(phone, ''), user_type, created_at
		FROM users WHERE email = ?`

	user := &model.User{}
	var userType string
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.Phone, &userType, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.UserType = model.UserType(userType)

	return user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
