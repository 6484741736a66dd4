package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"revistas_backend/internal/database"
	"revistas_backend/internal/models"
	"revistas_backend/internal/repositories"
	"revistas_backend/internal/services"
	"revistas_backend/pkg/utils"
)

// NewCreateAdminCommand creates the command that bootstraps an ADMIN account.
// Registration over HTTP requires an admin, so the first one comes from here.
func NewCreateAdminCommand(rootOpts *RootOptions) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an ADMIN user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
			}
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			db, err := database.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			authService := services.NewAuthService(
				repositories.NewAuthRepository(db),
				repositories.NewOrganizationRepository(db),
				db,
				utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
			)
			user, err := authService.RegisterUser(cmd.Context(), services.RegisterUserRequest{
				Username: username,
				Password: password,
				Role:     models.RoleAdmin,
			})
			if err != nil {
				return fmt.Errorf("could not create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&password, "password", "", "admin password (min 8 characters)")
	return cmd
}
