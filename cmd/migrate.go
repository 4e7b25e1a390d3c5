package main

import (
	"time"

	"invoice-service/internal/database/postgres"
	"invoice-service/internal/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database if needed and apply the schema",
	Example: `  # Apply the schema against POSTGRES_HOST
  invoice-service migrate

  # Give a slow database longer to come up
  invoice-service migrate --attempts 20`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Int("attempts", 5, "Connection attempts before giving up")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, closer, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer closer.Close()

	attempts, _ := cmd.Flags().GetInt("attempts")
	db, err := postgres.ConnectWithRetry(cfg.PostgresCfg, attempts, 3*time.Second)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.ApplySchema(cmd.Context(), db); err != nil {
		return err
	}
	l := logger.WithComponent("migrate")
	l.Info().Str("database", cfg.PostgresCfg.DBname).Msg("migration complete")
	return nil
}
