package cli

import (
	"github.com/spf13/cobra"

	"revistas_backend/internal/database"
)

// NewMigrateCommand creates the migrate command, which applies the embedded schema.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if printOnly {
				_, err := cmd.OutOrStdout().Write([]byte(database.Schema()))
				return err
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
			return database.ApplySchema(cmd.Context(), db)
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "print the schema instead of applying it")
	return cmd
}
