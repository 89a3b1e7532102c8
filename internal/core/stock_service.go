package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"mealplanner/internal/logger"
	"mealplanner/internal/metrics"
)

// Reasons a StockDelta was not applied.
const (
	SkipNoEntry    = "no_entry"
	SkipUnitFamily = "unit_family"
)

// DeltaOutcome describes what ApplyDeltaTx did with a StockDelta.
type DeltaOutcome struct {
	Applied decimal.Decimal // signed, normalized, after clamping
	Created bool
	Clamped bool
	Skipped string // empty when the delta was applied
}

// StockLedger manages pantry stock. Every change is floored at zero and
// recorded as a StockMovement.
type StockLedger interface {
	// Standalone operations (manage their own transactions).
	List(ctx context.Context) ([]StockEntry, error)
	Upsert(ctx context.Context, in UpsertStockInput) (*StockEntry, error)
	Increment(ctx context.Context, ingredientID int64, qty decimal.Decimal, unitCode string) (*StockEntry, error)
	Decrement(ctx context.Context, ingredientID int64, qty decimal.Decimal, unitCode string) (*StockEntry, error)
	Delete(ctx context.Context, ingredientID int64) error
	Movements(ctx context.Context, ingredientID int64) ([]StockMovement, error)

	// ApplyDeltaTx applies one delta within the caller's transaction.
	// A negative delta on a missing entry is a no-op; a positive one creates
	// the entry in the delta's unit. A delta whose unit family differs from the
	// entry's is skipped.
	ApplyDeltaTx(ctx context.Context, q Queries, d StockDelta) (DeltaOutcome, error)
}

type stockLedger struct {
	store   Store
	catalog *UnitCatalog
	clock   Clock
	log     *logrus.Logger
	metrics *metrics.Metrics
}

// NewStockLedger constructs a StockLedger over store.
func NewStockLedger(store Store, catalog *UnitCatalog, clock Clock, log *logrus.Logger, m *metrics.Metrics) StockLedger {
	if clock == nil {
		clock = time.Now
	}
	return &stockLedger{store: store, catalog: catalog, clock: clock, log: logger.OrDiscard(log), metrics: m}
}

func (s *stockLedger) List(ctx context.Context) ([]StockEntry, error) {
	entries, err := s.store.GetStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock: %w", err)
	}
	return entries, nil
}

// Upsert sets an ingredient's stock outright. Changing the unit recomputes the
// normalized quantity from the new unit.
func (s *stockLedger) Upsert(ctx context.Context, in UpsertStockInput) (*StockEntry, error) {
	if in.Quantity.IsNegative() {
		return nil, fmt.Errorf("stock quantity cannot be negative, got %s: %w", in.Quantity, ErrInvalidInput)
	}
	unit, err := s.catalog.FindByCode(in.UnitCode)
	if err != nil {
		return nil, err
	}

	var result *StockEntry
	err = s.store.RunInTx(ctx, func(q Queries) error {
		now := s.clock()
		prev, err := q.GetStockEntry(ctx, in.IngredientID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("failed to lock stock for ingredient %d: %w", in.IngredientID, err)
		}

		entry := StockEntry{
			IngredientID:       in.IngredientID,
			Quantity:           in.Quantity,
			Unit:               unit,
			QuantityNormalized: Normalize(in.Quantity, unit),
			ExpiryDate:         in.ExpiryDate,
			UpdatedAt:          now,
		}
		if err := q.UpsertStock(ctx, entry); err != nil {
			return fmt.Errorf("failed to upsert stock for ingredient %d: %w", in.IngredientID, err)
		}

		var movements []StockMovement
		switch {
		case prev == nil:
			movements = append(movements, manualMovement(in.IngredientID, entry.QuantityNormalized, unit.BaseUnit, now))
		case prev.Unit.BaseUnit == unit.BaseUnit:
			movements = append(movements, manualMovement(in.IngredientID, entry.QuantityNormalized.Sub(prev.QuantityNormalized), unit.BaseUnit, now))
		default:
			// Family change: the old holding leaves, the new one arrives.
			movements = append(movements,
				manualMovement(in.IngredientID, prev.QuantityNormalized.Neg(), prev.Unit.BaseUnit, now),
				manualMovement(in.IngredientID, entry.QuantityNormalized, unit.BaseUnit, now),
			)
		}
		for _, m := range movements {
			if m.Delta.IsZero() {
				continue
			}
			if err := q.InsertMovement(ctx, m); err != nil {
				return fmt.Errorf("failed to record stock movement: %w", err)
			}
		}

		result, err = q.GetStockEntry(ctx, in.IngredientID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func manualMovement(ingredientID int64, delta decimal.Decimal, base BaseUnit, at time.Time) StockMovement {
	return StockMovement{IngredientID: ingredientID, Delta: delta, BaseUnit: base, Reason: MovementManual, CreatedAt: at}
}

func (s *stockLedger) Increment(ctx context.Context, ingredientID int64, qty decimal.Decimal, unitCode string) (*StockEntry, error) {
	return s.adjust(ctx, ingredientID, qty, unitCode, false)
}

func (s *stockLedger) Decrement(ctx context.Context, ingredientID int64, qty decimal.Decimal, unitCode string) (*StockEntry, error) {
	return s.adjust(ctx, ingredientID, qty, unitCode, true)
}

func (s *stockLedger) adjust(ctx context.Context, ingredientID int64, qty decimal.Decimal, unitCode string, negate bool) (*StockEntry, error) {
	if !qty.IsPositive() {
		return nil, fmt.Errorf("adjustment quantity must be positive, got %s: %w", qty, ErrInvalidInput)
	}
	unit, err := s.catalog.FindByCode(unitCode)
	if err != nil {
		return nil, err
	}
	delta := Normalize(qty, unit)
	if negate {
		delta = delta.Neg()
	}

	var result *StockEntry
	err = s.store.RunInTx(ctx, func(q Queries) error {
		out, err := s.ApplyDeltaTx(ctx, q, StockDelta{
			IngredientID: ingredientID,
			Normalized:   delta,
			Unit:         unit,
			Reason:       MovementManual,
		})
		if err != nil {
			return err
		}
		switch out.Skipped {
		case SkipUnitFamily:
			return fmt.Errorf("ingredient %d is stocked in another unit family than %s: %w", ingredientID, unit.Code, ErrIncompatibleUnit)
		case SkipNoEntry:
			return fmt.Errorf("no stock tracked for ingredient %d: %w", ingredientID, ErrNotFound)
		}
		result, err = q.GetStockEntry(ctx, ingredientID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *stockLedger) Delete(ctx context.Context, ingredientID int64) error {
	if err := s.store.DeleteStock(ctx, ingredientID); err != nil {
		return fmt.Errorf("failed to delete stock for ingredient %d: %w", ingredientID, err)
	}
	return nil
}

func (s *stockLedger) Movements(ctx context.Context, ingredientID int64) ([]StockMovement, error) {
	movements, err := s.store.ListMovements(ctx, ingredientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements for ingredient %d: %w", ingredientID, err)
	}
	return movements, nil
}

// ── TX-scoped operations ──────────────────────────────────────────────────────

func (s *stockLedger) ApplyDeltaTx(ctx context.Context, q Queries, d StockDelta) (DeltaOutcome, error) {
	fields := logrus.Fields{"ingredient_id": d.IngredientID, "reason": d.Reason}
	if d.MealID != nil {
		fields["meal_id"] = *d.MealID
	}
	if d.Normalized.IsZero() {
		return DeltaOutcome{Applied: decimal.Zero}, nil
	}
	now := s.clock()

	entry, err := q.GetStockEntry(ctx, d.IngredientID)
	if errors.Is(err, ErrNotFound) {
		if !d.Normalized.IsPositive() {
			// Untracked stock cannot be decremented.
			s.metrics.StockDeltaSkipped(SkipNoEntry)
			return DeltaOutcome{Applied: decimal.Zero, Skipped: SkipNoEntry}, nil
		}
		qty, err := Denormalize(d.Normalized, d.Unit.BaseUnit, d.Unit)
		if err != nil {
			return DeltaOutcome{}, err
		}
		created := StockEntry{
			IngredientID:       d.IngredientID,
			Quantity:           qty,
			Unit:               d.Unit,
			QuantityNormalized: d.Normalized,
			UpdatedAt:          now,
		}
		if err := q.UpsertStock(ctx, created); err != nil {
			return DeltaOutcome{}, fmt.Errorf("failed to create stock for ingredient %d: %w", d.IngredientID, err)
		}
		if err := q.InsertMovement(ctx, movementFor(d, d.Normalized, now)); err != nil {
			return DeltaOutcome{}, fmt.Errorf("failed to record stock movement for ingredient %d: %w", d.IngredientID, err)
		}
		s.log.WithFields(fields).Debugf("created stock entry with %s %s", d.Normalized, d.Unit.BaseUnit)
		return DeltaOutcome{Applied: d.Normalized, Created: true}, nil
	}
	if err != nil {
		return DeltaOutcome{}, fmt.Errorf("failed to lock stock for ingredient %d: %w", d.IngredientID, err)
	}

	if entry.Unit.BaseUnit != d.Unit.BaseUnit {
		s.metrics.StockDeltaSkipped(SkipUnitFamily)
		s.log.WithFields(fields).Warnf("stock held in %s, change expressed in %s; left untouched", entry.Unit.BaseUnit, d.Unit.BaseUnit)
		return DeltaOutcome{Applied: decimal.Zero, Skipped: SkipUnitFamily}, nil
	}

	newNormalized := entry.QuantityNormalized.Add(d.Normalized)
	clamped := false
	if newNormalized.IsNegative() {
		newNormalized = decimal.Zero
		clamped = true
		s.metrics.StockClamped()
	}
	applied := newNormalized.Sub(entry.QuantityNormalized)

	qty, err := Denormalize(newNormalized, entry.Unit.BaseUnit, entry.Unit)
	if err != nil {
		return DeltaOutcome{}, err
	}
	entry.Quantity = qty
	entry.QuantityNormalized = newNormalized
	entry.UpdatedAt = now
	if err := q.UpsertStock(ctx, *entry); err != nil {
		return DeltaOutcome{}, fmt.Errorf("failed to update stock for ingredient %d: %w", d.IngredientID, err)
	}
	if !applied.IsZero() {
		if err := q.InsertMovement(ctx, movementFor(d, applied, now)); err != nil {
			return DeltaOutcome{}, fmt.Errorf("failed to record stock movement for ingredient %d: %w", d.IngredientID, err)
		}
	}
	if clamped {
		s.log.WithFields(fields).Infof("stock floored at zero (requested %s, applied %s)", d.Normalized, applied)
	}
	return DeltaOutcome{Applied: applied, Clamped: clamped}, nil
}

func movementFor(d StockDelta, applied decimal.Decimal, at time.Time) StockMovement {
	return StockMovement{
		IngredientID: d.IngredientID,
		Delta:        applied,
		BaseUnit:     d.Unit.BaseUnit,
		Reason:       d.Reason,
		MealID:       d.MealID,
		CreatedAt:    at,
	}
}
