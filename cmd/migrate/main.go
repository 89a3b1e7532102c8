// migrate applies or reverts the schema under MIGRATIONS_PATH.
//
// Usage: go run ./cmd/migrate [up|down --steps N|version]
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"mealplanner/internal/db"
	"mealplanner/internal/logger"
)

func main() {
	_ = godotenv.Load()

	var (
		databaseURL    string
		migrationsPath string
		steps          int
	)
	log := logger.New(os.Getenv("LOG_LEVEL"))

	open := func() (*db.Migrator, error) {
		if databaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required")
		}
		return db.NewMigrator(databaseURL, migrationsPath, log)
	}

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the planner database schema",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection URL")
	root.PersistentFlags().StringVar(&migrationsPath, "path", envOr("MIGRATIONS_PATH", "migrations"), "Migrations directory")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			mg, err := open()
			if err != nil {
				return err
			}
			defer mg.Close()
			return mg.Up()
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Revert migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			mg, err := open()
			if err != nil {
				return err
			}
			defer mg.Close()
			return mg.Down(steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to revert")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			mg, err := open()
			if err != nil {
				return err
			}
			defer mg.Close()
			v, dirty, err := mg.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
			return nil
		},
	}

	root.AddCommand(up, down, version)
	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
