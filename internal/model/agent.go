package model

import "time"

const (
	MinExperienceYears = 0
	MaxExperienceYears = 60
)

// Agent is the 1:1 extension of a User with user_type = agent.
type Agent struct {
	ID              int64
	UserID          int64
	LicenseNumber   string
	Brokerage       string
	ExperienceYears int
	Specialties     string
	CreatedAt       time.Time
}

// AgentInput is the add-agent form payload. The json tags carry the form
// field names; validation errors are keyed by them. An empty Password asks
// the service to generate one.
type AgentInput struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	LicenseNumber   string `json:"license_number"`
	Brokerage       string `json:"brokerage"`
	ExperienceYears string `json:"experience_years"`
	Specialties     string `json:"specialties"`
}

// AgentResult reports the created rows. GeneratedPassword is only set when
// the service generated the password and is meant to be shown exactly once.
type AgentResult struct {
	UserID            int64
	AgentID           int64
	GeneratedPassword string
}
