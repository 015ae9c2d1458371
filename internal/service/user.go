package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/estatehub/estatehub-admin/internal/crypto"
	"github.com/estatehub/estatehub-admin/internal/derive"
	"github.com/estatehub/estatehub-admin/internal/model"
	"github.com/estatehub/estatehub-admin/internal/repository"
)

// UserService creates accounts from the add-user screen.
type UserService struct {
	db       *sql.DB
	users    *repository.UserRepository
	agents   *repository.AgentRepository
	hashCost int
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, users *repository.UserRepository, agents *repository.AgentRepository, hashCost int) *UserService {
	return &UserService{db: db, users: users, agents: agents, hashCost: hashCost}
}

// CreateUser validates the submission, reporting every problem at once,
// then writes the user. Agent accounts also get a placeholder agent profile
// in the same transaction.
func (s *UserService) CreateUser(ctx context.Context, actor model.Actor, in model.UserInput) (model.UserResult, error) {
	in = normalizeUser(in)

	violations, err := validateUser(in)
	if err != nil {
		return model.UserResult{}, err
	}

	var cause error
	emailUsable := in.Email != ""
	for _, v := range violations {
		if v.Field == "email" {
			emailUsable = false
		}
	}
	if emailUsable {
		taken, err := s.users.EmailExists(ctx, in.Email)
		if err != nil {
			return model.UserResult{}, &StorageError{Op: "check email", Err: err}
		}
		if taken {
			violations = append(violations, Violation{Field: "email", Message: "Email is already registered"})
			sortViolations(violations, userFieldOrder)
			cause = ErrEmailTaken
		}
	}
	if len(violations) > 0 {
		return model.UserResult{}, &ValidationError{Violations: violations, cause: cause}
	}

	hash, err := crypto.HashPassword(in.Password, s.hashCost)
	if err != nil {
		return model.UserResult{}, err
	}

	user := &model.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		UserType:     model.UserType(in.UserType),
	}
	var agent *model.Agent

	err = repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.users.Create(ctx, tx, user); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		if user.UserType != model.UserTypeAgent {
			return nil
		}

		agent = &model.Agent{
			UserID:        user.ID,
			LicenseNumber: derive.LicensePlaceholder(user.ID),
		}
		if err := s.agents.Create(ctx, tx, agent); err != nil {
			return fmt.Errorf("insert agent: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.UserResult{}, writeError("create user", "email", "Email is already registered", err)
	}

	result := model.UserResult{UserID: user.ID}
	if agent != nil {
		result.AgentID = agent.ID
		result.LicenseNumber = agent.LicenseNumber
	}

	log.Info().
		Int64("user_id", user.ID).
		Str("user_type", string(user.UserType)).
		Int64("created_by", actor.UserID).
		Msg("user created")

	return result, nil
}
