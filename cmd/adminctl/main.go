package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/estatehub/estatehub-admin/internal/config"
	"github.com/estatehub/estatehub-admin/internal/logger"
	"github.com/estatehub/estatehub-admin/internal/repository"
)

// openFunc opens the database the commands work on.
type openFunc func(dsn string) (*sql.DB, error)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(repository.NewDB).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(open openFunc) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "adminctl",
		Short:         "EstateHub admin panel maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		migrateCmd(open),
		createAdminCmd(open),
	)
	return rootCmd
}

// setup loads configuration and opens the database for a command.
func setup(open openFunc) (config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger.Init(cfg.Env, cfg.LogLevel)

	db, err := open(cfg.DatabaseDSN)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return cfg, db, nil
}
