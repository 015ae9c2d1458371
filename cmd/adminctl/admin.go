package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/estatehub/estatehub-admin/internal/crypto"
	"github.com/estatehub/estatehub-admin/internal/model"
	"github.com/estatehub/estatehub-admin/internal/repository"
	"github.com/estatehub/estatehub-admin/internal/service"
)

// createAdminCmd bootstraps an admin account so the panel can be signed in
// to. It goes through the same validation as the add-user screen.
func createAdminCmd(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			firstName, _ := cmd.Flags().GetString("first-name")
			lastName, _ := cmd.Flags().GetString("last-name")

			generated := password == ""
			if generated {
				var err error
				if password, err = crypto.GeneratePassword(); err != nil {
					return fmt.Errorf("failed to generate password: %w", err)
				}
			}

			cfg, db, err := setup(open)
			if err != nil {
				return err
			}
			defer db.Close()

			users := repository.NewUserRepository(db)
			svc := service.NewUserService(db, users, repository.NewAgentRepository(db), cfg.BcryptCost)

			res, err := svc.CreateUser(cmd.Context(), model.Actor{}, model.UserInput{
				FirstName:       firstName,
				LastName:        lastName,
				Email:           email,
				UserType:        string(model.UserTypeAdmin),
				Password:        password,
				ConfirmPassword: password,
			})
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Admin %s created with id %d.\n", email, res.UserID)
			if generated {
				fmt.Fprintf(out, "Generated password: %s\n", password)
			}
			return nil
		},
	}

	cmd.Flags().String("email", "", "admin email address")
	cmd.Flags().String("password", "", "admin password (generated when empty)")
	cmd.Flags().String("first-name", "Site", "admin first name")
	cmd.Flags().String("last-name", "Admin", "admin last name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
