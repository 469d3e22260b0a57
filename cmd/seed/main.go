package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Baaaki/content-square/internal/config"
	"github.com/Baaaki/content-square/internal/database"
	"github.com/Baaaki/content-square/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "seed",
		Short:        "Seed roles and the bootstrap administrator",
		SilenceUsage: true,
	}
	root.AddCommand(newRolesCmd(), newAdminCmd())
	return root
}

func newRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "Create the default roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			return database.SeedRoles(db)
		},
	}
}

func newAdminCmd() *cobra.Command {
	seed := database.AdminSeed{}

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Create an admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed.Email == "" || seed.Password == "" {
				return errors.New("email and password are required (flags or ADMIN_EMAIL, ADMIN_PASSWORD)")
			}

			db, err := connect()
			if err != nil {
				return err
			}
			if err := database.SeedRoles(db); err != nil {
				return err
			}

			admin, err := database.SeedAdmin(db, seed)
			if errors.Is(err, database.ErrAdminExists) {
				fmt.Fprintf(cmd.OutOrStdout(), "Admin user already exists: %s (id %d)\n", admin.Email, admin.ID)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Admin user created: %s (id %d)\n", admin.Email, admin.ID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&seed.Email, "email", os.Getenv("ADMIN_EMAIL"), "admin email")
	flags.StringVar(&seed.Password, "password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	flags.StringVar(&seed.Name, "name", envOr("ADMIN_NAME", "Admin"), "admin first name")
	flags.StringVar(&seed.Surname, "surname", envOr("ADMIN_SURNAME", "User"), "admin surname")
	return cmd
}

func connect() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(logger.Options{Development: !cfg.IsProduction(), Level: cfg.LogLevel}); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, false)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	logger.Log.Debug("Seed connected", zap.String("driver", cfg.DatabaseDriver))
	return db, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
