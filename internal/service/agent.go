package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/estatehub/estatehub-admin/internal/crypto"
	"github.com/estatehub/estatehub-admin/internal/model"
	"github.com/estatehub/estatehub-admin/internal/repository"
)

// AgentService creates agent accounts from the add-agent screen.
type AgentService struct {
	db       *sql.DB
	users    *repository.UserRepository
	agents   *repository.AgentRepository
	hashCost int
}

// NewAgentService creates a new AgentService.
func NewAgentService(db *sql.DB, users *repository.UserRepository, agents *repository.AgentRepository, hashCost int) *AgentService {
	return &AgentService{db: db, users: users, agents: agents, hashCost: hashCost}
}

// CreateAgent validates the submission, then writes the user and its agent
// profile in one transaction. When no password was submitted one is
// generated and returned in the result so it can be handed to the agent.
func (s *AgentService) CreateAgent(ctx context.Context, actor model.Actor, in model.AgentInput) (model.AgentResult, error) {
	in = normalizeAgent(in)

	violations, err := validateAgent(in)
	if err != nil {
		return model.AgentResult{}, err
	}
	if len(violations) > 0 {
		return model.AgentResult{}, &ValidationError{Violations: violations}
	}
	years, _ := parseExperience(in.ExperienceYears)

	taken, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return model.AgentResult{}, &StorageError{Op: "check email", Err: err}
	}
	if taken {
		return model.AgentResult{}, &ConflictError{
			Field:   "email",
			Message: "A user with this email already exists",
			Err:     ErrEmailTaken,
		}
	}

	var generated string
	password := in.Password
	if password == "" {
		if generated, err = crypto.GeneratePassword(); err != nil {
			return model.AgentResult{}, fmt.Errorf("generate password: %w", err)
		}
		password = generated
	}

	hash, err := crypto.HashPassword(password, s.hashCost)
	if err != nil {
		return model.AgentResult{}, err
	}

	user := &model.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		UserType:     model.UserTypeAgent,
	}
	agent := &model.Agent{
		LicenseNumber:   in.LicenseNumber,
		Brokerage:       in.Brokerage,
		ExperienceYears: years,
		Specialties:     in.Specialties,
	}

	err = repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.users.Create(ctx, tx, user); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		agent.UserID = user.ID
		if err := s.agents.Create(ctx, tx, agent); err != nil {
			return fmt.Errorf("insert agent: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.AgentResult{}, writeError("create agent", "email", "A user with this email already exists", err)
	}

	log.Info().
		Int64("user_id", user.ID).
		Int64("agent_id", agent.ID).
		Int64("created_by", actor.UserID).
		Bool("password_generated", generated != "").
		Msg("agent created")

	return model.AgentResult{
		UserID:            user.ID,
		AgentID:           agent.ID,
		GeneratedPassword: generated,
	}, nil
}
