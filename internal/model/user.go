package model

import "time"

// UserType is the role stored in users.user_type.
type UserType string

const (
	UserTypeClient UserType = "client"
	UserTypeAgent  UserType = "agent"
	UserTypeAdmin  UserType = "admin"
)

// UserTypes lists every accepted role in display order.
var UserTypes = []UserType{UserTypeClient, UserTypeAgent, UserTypeAdmin}

// Valid reports whether t is one of the known roles.
func (t UserType) Valid() bool {
	for _, known := range UserTypes {
		if t == known {
			return true
		}
	}
	return false
}

// User represents a row in the users table.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	UserType     UserType
	CreatedAt    time.Time
}

// Actor is the authenticated admin performing a request.
type Actor struct {
	UserID int64
	Email  string
}

// UserInput is the add-user form payload. The json tags carry the form field
// names; validation errors are keyed by them.
type UserInput struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	UserType        string `json:"user_type"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UserResult is returned after a user (and optional placeholder agent) is created.
type UserResult struct {
	UserID        int64
	AgentID       int64
	LicenseNumber string
}
