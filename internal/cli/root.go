package cli

import (
	"github.com/spf13/cobra"

	"revistas_backend/internal/config"
	"revistas_backend/pkg/utils"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand creates the root command of the revistas backend.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "revistas",
		Short:         "Magazine order management backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", utils.Getenv("CONFIG_FILE", ""), "path to a YAML config file (env: CONFIG_FILE)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewCreateAdminCommand(opts))

	return cmd
}

// loadConfig reads the configuration and initializes logging from it.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	utils.InitLogger(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}
