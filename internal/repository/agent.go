package repository

import (
	"context"
	"database/sql"

	"github.com/estatehub/estatehub-admin/internal/model"
)

// AgentRepository handles agent profile persistence.
type AgentRepository struct {
	db *sql.DB
}

func NewAgentRepository(db *sql.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

// Create inserts the agent row for an already inserted user. It is meant to
// run on the same transaction as the user insert.
func (r *AgentRepository) Create(ctx context.Context, q DBTX, agent *model.Agent) error {
	query := `INSERT INTO agents (user_id, license_number, brokerage, experience_years, specialties)
		VALUES (?, ?, ?, ?, ?)`

	result, err := q.ExecContext(ctx, query,
		agent.UserID,
		agent.LicenseNumber,
		agent.Brokerage,
		agent.ExperienceYears,
		agent.Specialties,
	)
	if err != nil {
		return classify(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	agent.ID = id
	return nil
}
