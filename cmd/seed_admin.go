package main

import (
	"fmt"
	"time"

	"invoice-service/internal/database/postgres"
	"invoice-service/internal/logger"
	"invoice-service/internal/repository"
	"invoice-service/internal/services"

	"github.com/spf13/cobra"
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the platform admin user if it does not exist",
	Long: `seed-admin creates the platform administration company and an ADMIN user
with ADMIN_USERNAME and ADMIN_PASSWORD. Running it again changes nothing.`,
	RunE: runSeedAdmin,
}

func init() {
	rootCmd.AddCommand(seedAdminCmd)
	seedAdminCmd.Flags().String("username", "", "Admin username (default: ADMIN_USERNAME)")
	seedAdminCmd.Flags().String("password", "", "Admin password (default: ADMIN_PASSWORD)")
}

func runSeedAdmin(cmd *cobra.Command, args []string) error {
	cfg, closer, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer closer.Close()

	if cfg.StoreDriver != "postgres" {
		return fmt.Errorf("seed-admin needs STORE_DRIVER=postgres, got %q", cfg.StoreDriver)
	}

	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	if username == "" {
		username = cfg.AdminSeedCfg.Username
	}
	if password == "" {
		password = cfg.AdminSeedCfg.Password
	}

	db, err := postgres.ConnectWithRetry(cfg.PostgresCfg, 5, 3*time.Second)
	if err != nil {
		return err
	}
	defer db.Close()

	// Seeding never issues tokens, so sessions and the signing key are unused.
	store := repository.NewPostgresStore(db)
	auth := services.NewAuthService(store, repository.NewMemorySessionRepository(), services.NewJWTService(cfg.AuthCfg.JWTSecret, time.Hour))
	if err := auth.SeedAdmin(cmd.Context(), username, password); err != nil {
		return err
	}
	l := logger.WithComponent("seed_admin")
	l.Info().Str("username", username).Msg("admin user ready")
	return nil
}
