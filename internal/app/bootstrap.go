package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"mealplanner/internal/config"
	"mealplanner/internal/core"
	"mealplanner/internal/db"
	"mealplanner/internal/logger"
	"mealplanner/internal/metrics"
	"mealplanner/internal/store/memory"
	"mealplanner/internal/store/postgres"
	"mealplanner/internal/store/unitfile"
)

// Runtime is a fully wired planner: the store chosen by configuration, the
// unit catalog, and the application service on top of them.
type Runtime struct {
	Service ApplicationService
	Store   core.Store
	Catalog *core.UnitCatalog
	closeFn func()
}

// Close releases the store's resources.
func (r *Runtime) Close() {
	if r.closeFn != nil {
		r.closeFn()
	}
}

// Bootstrap opens the configured store, loads the unit catalog and wires the
// services. The catalog comes from UNITS_FILE when set, else from the database.
func Bootstrap(ctx context.Context, cfg *config.Config, log *logrus.Logger, m *metrics.Metrics) (*Runtime, error) {
	log = logger.OrDiscard(log)
	rt := &Runtime{}

	var source core.UnitSource
	if cfg.UnitsFile != "" {
		source = unitfile.New(cfg.UnitsFile)
	}

	switch cfg.StoreDriver {
	case config.DriverMemory:
		if source == nil {
			return nil, fmt.Errorf("the memory store needs a units file")
		}
		catalog, err := core.NewUnitCatalog(ctx, source)
		if err != nil {
			return nil, err
		}
		rt.Catalog = catalog
		rt.Store = memory.New()
		log.Warn("using the in-memory store; data is lost on exit")

	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if source == nil {
			source = postgres.NewUnitSource(pool)
		}
		catalog, err := core.NewUnitCatalog(ctx, source)
		if err != nil {
			pool.Close()
			return nil, err
		}
		rt.Catalog = catalog
		rt.Store = postgres.New(pool, catalog)
		rt.closeFn = pool.Close

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	log.WithFields(logrus.Fields{
		"driver": cfg.StoreDriver,
		"units":  len(rt.Catalog.ListUnits()),
		"tz":     cfg.Location.String(),
	}).Info("planner initialized")

	rt.Service = Wire(rt.Store, rt.Catalog, cfg.Now, log, m)
	return rt, nil
}

// Wire builds the application service over an already opened store.
func Wire(store core.Store, catalog *core.UnitCatalog, clock core.Clock, log *logrus.Logger, m *metrics.Metrics) ApplicationService {
	stock := core.NewStockLedger(store, catalog, clock, log, m)
	return NewAppService(
		store,
		catalog,
		core.NewRecipeService(store, catalog, log),
		stock,
		core.NewMealService(store, stock, clock, log, m),
		core.NewShoppingListService(store, stock, clock, log, m),
		clock,
		log,
	)
}
