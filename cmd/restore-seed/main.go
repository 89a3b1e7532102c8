// restore-seed is a one-shot tool to restore the unit reference table.
// Run it when the units were edited by hand or wiped; rows are matched by id.
//
// Usage: go run ./cmd/restore-seed [units.yaml]
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"mealplanner/internal/core"
	"mealplanner/internal/db"
	"mealplanner/internal/logger"
	"mealplanner/internal/store/postgres"
	"mealplanner/internal/store/unitfile"
)

func main() {
	_ = godotenv.Load()
	log := logger.New(os.Getenv("LOG_LEVEL"))

	path := "config/units.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	ctx := context.Background()

	// Validate through the catalog before touching the database.
	catalog, err := core.NewUnitCatalog(ctx, unitfile.New(path))
	if err != nil {
		log.Fatalf("Invalid unit file %s: %v", path, err)
	}

	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	n, err := postgres.SyncUnits(ctx, pool, catalog.ListUnits())
	if err != nil {
		log.Fatalf("Failed to restore units: %v", err)
	}
	log.WithField("units", n).Info("unit table restored")
}
