package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// UnitSource loads the unit reference table.
type UnitSource interface {
	LoadUnits(ctx context.Context) ([]Unit, error)
}

// UnitCatalog is the process-wide, read-only view of the unit table.
// It is constructed once and passed to whatever needs to resolve units;
// Reload swaps the whole table atomically.
type UnitCatalog struct {
	source UnitSource
	group  singleflight.Group

	mu     sync.RWMutex
	units  []Unit // sorted by family, then ratio
	byCode map[string]Unit
	byID   map[int64]Unit
}

// NewUnitCatalog loads the catalog from source.
func NewUnitCatalog(ctx context.Context, source UnitSource) (*UnitCatalog, error) {
	c := &UnitCatalog{source: source}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// NewStaticUnitCatalog builds a catalog from an in-memory unit list.
func NewStaticUnitCatalog(units []Unit) (*UnitCatalog, error) {
	c := &UnitCatalog{source: staticUnits(units)}
	if err := c.Reload(context.Background()); err != nil {
		return nil, err
	}
	return c, nil
}

type staticUnits []Unit

func (s staticUnits) LoadUnits(context.Context) ([]Unit, error) {
	return append([]Unit(nil), s...), nil
}

// Reload re-reads the unit table from the source. Concurrent calls share one load.
func (c *UnitCatalog) Reload(ctx context.Context) error {
	_, err, _ := c.group.Do("reload", func() (any, error) {
		units, err := c.source.LoadUnits(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load units: %w", err)
		}
		return nil, c.install(units)
	})
	return err
}

func (c *UnitCatalog) install(units []Unit) error {
	byCode := make(map[string]Unit, len(units))
	byID := make(map[int64]Unit, len(units))
	for _, u := range units {
		if err := u.Validate(); err != nil {
			return err
		}
		key := strings.ToLower(u.Code)
		if _, dup := byCode[key]; dup {
			return fmt.Errorf("duplicate unit code %q", u.Code)
		}
		byCode[key] = u
		if u.ID != 0 {
			byID[u.ID] = u
		}
	}

	sorted := append([]Unit(nil), units...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Family != sorted[j].Family {
			return sorted[i].Family < sorted[j].Family
		}
		return sorted[i].ConversionRatio.LessThan(sorted[j].ConversionRatio)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.units = sorted
	c.byCode = byCode
	c.byID = byID
	return nil
}

// ListUnits returns every unit in the catalog.
func (c *UnitCatalog) ListUnits() []Unit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Unit(nil), c.units...)
}

// DisplayableUnits returns the units offered in pickers.
func (c *UnitCatalog) DisplayableUnits() []Unit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Unit
	for _, u := range c.units {
		if u.IsDisplayable {
			out = append(out, u)
		}
	}
	return out
}

// UnitsForBase returns every unit normalizing to base.
func (c *UnitCatalog) UnitsForBase(base BaseUnit) []Unit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Unit
	for _, u := range c.units {
		if u.BaseUnit == base {
			out = append(out, u)
		}
	}
	return out
}

// FindByCode resolves a unit code, case-insensitively.
func (c *UnitCatalog) FindByCode(code string) (Unit, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.byCode[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return Unit{}, fmt.Errorf("unit code %q: %w", code, ErrUnknownUnit)
	}
	return u, nil
}

// FindByID resolves a unit id.
func (c *UnitCatalog) FindByID(id int64) (Unit, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.byID[id]
	if !ok {
		return Unit{}, fmt.Errorf("unit id %d: %w", id, ErrUnknownUnit)
	}
	return u, nil
}
