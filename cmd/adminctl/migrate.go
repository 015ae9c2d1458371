package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/estatehub/estatehub-admin/internal/repository"
)

func migrateCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and seed the default blog categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := setup(open)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := repository.ApplySchema(cmd.Context(), db)
			if err != nil {
				return fmt.Errorf("failed to apply schema after %d statements: %w", n, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%d statements).\n", n)
			return nil
		},
	}
}
