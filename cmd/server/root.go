package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"lireddit/internal/config"
	"lireddit/internal/transport/http"
)

// NewRootCmd creates the root command for the lireddit server binary.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "server",
		Short:        "lireddit GraphQL backend",
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and mail workers",
		Long: `Apply pending migrations, start the mail workers and serve the
GraphQL endpoint until SIGINT or SIGTERM.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return oops.Code("CONFIG_INVALID").Wrap(err)
			}
			return http.Run(cfg)
		},
	}
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return oops.Code("CONFIG_INVALID").Wrap(err)
			}

			cmd.Println("Running migrations...")
			if err := http.Migrate(cfg); err != nil {
				return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
			}
			cmd.Println("Migrations completed successfully")
			return nil
		},
	}
}
