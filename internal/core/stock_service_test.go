package core_test

import (
	"errors"
	"testing"
	"time"

	"mealplanner/internal/core"
)

func TestStockLedger_UpsertRecordsMovements(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	sugar := f.ingredientID(t, "sugar")

	steps := []struct {
		qty, unit  string
		wantNorm   string
		wantDeltas []string
	}{
		{"500", "g", "500", []string{"500"}},
		{"1", "kg", "1000", []string{"500"}},        // same family, new unit
		{"3", "piece", "3", []string{"-1000", "3"}}, // family change
		{"3", "piece", "3", nil},                    // unchanged
	}
	seen := 0
	for _, s := range steps {
		e, err := f.stock.Upsert(f.ctx, core.UpsertStockInput{IngredientID: sugar, Quantity: d(s.qty), UnitCode: s.unit})
		if err != nil {
			t.Fatalf("Upsert %s %s: %v", s.qty, s.unit, err)
		}
		if !e.QuantityNormalized.Equal(d(s.wantNorm)) || e.Unit.Code != s.unit {
			t.Errorf("entry = %s (%s %s), want %s", e.QuantityNormalized, e.Quantity, e.Unit.Code, s.wantNorm)
		}
		if e.IngredientName != "sugar" {
			t.Errorf("ingredient name = %q", e.IngredientName)
		}

		movements, err := f.stock.Movements(f.ctx, sugar)
		if err != nil {
			t.Fatalf("Movements: %v", err)
		}
		fresh := movements[seen:]
		seen = len(movements)
		if len(fresh) != len(s.wantDeltas) {
			t.Fatalf("after %s %s: %d new movements, want %d", s.qty, s.unit, len(fresh), len(s.wantDeltas))
		}
		for i, m := range fresh {
			if !m.Delta.Equal(d(s.wantDeltas[i])) || m.Reason != core.MovementManual {
				t.Errorf("movement %d = %s %s, want %s MANUAL", i, m.Delta, m.Reason, s.wantDeltas[i])
			}
		}
	}
}

func TestStockLedger_UpsertValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	salt := f.ingredientID(t, "salt")

	if _, err := f.stock.Upsert(f.ctx, core.UpsertStockInput{IngredientID: salt, Quantity: d("-1"), UnitCode: "g"}); err == nil {
		t.Error("negative quantity accepted")
	}
	if _, err := f.stock.Upsert(f.ctx, core.UpsertStockInput{IngredientID: salt, Quantity: d("1"), UnitCode: "cup"}); !errors.Is(err, core.ErrUnknownUnit) {
		t.Errorf("unknown unit = %v, want ErrUnknownUnit", err)
	}
	if _, err := f.stock.Upsert(f.ctx, core.UpsertStockInput{IngredientID: 999, Quantity: d("1"), UnitCode: "g"}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown ingredient = %v, want ErrNotFound", err)
	}
}

func TestStockLedger_IncrementDecrement(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	flour := f.ingredientID(t, "flour")
	expiry := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if _, err := f.stock.Upsert(f.ctx, core.UpsertStockInput{IngredientID: flour, Quantity: d("1"), UnitCode: "kg", ExpiryDate: &expiry}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	e, err := f.stock.Increment(f.ctx, flour, d("250"), "g")
	if err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if e.Unit.Code != "kg" || !e.Quantity.Equal(d("1.25")) || !e.QuantityNormalized.Equal(d("1250")) {
		t.Errorf("after increment = %s %s (%s)", e.Quantity, e.Unit.Code, e.QuantityNormalized)
	}
	if e.ExpiryDate == nil || !e.ExpiryDate.Equal(expiry) {
		t.Errorf("expiry lost: %v", e.ExpiryDate)
	}

	e, err = f.stock.Decrement(f.ctx, flour, d("2"), "kg")
	if err != nil {
		t.Fatalf("Decrement: %v", err)
	}
	if !e.QuantityNormalized.IsZero() {
		t.Errorf("decrement below zero = %s, want 0", e.QuantityNormalized)
	}

	movements, err := f.stock.Movements(f.ctx, flour)
	if err != nil {
		t.Fatalf("Movements: %v", err)
	}
	if last := movements[len(movements)-1]; !last.Delta.Equal(d("-1250")) {
		t.Errorf("clamped movement = %s, want -1250", last.Delta)
	}

	if _, err := f.stock.Increment(f.ctx, flour, d("2"), "piece"); !errors.Is(err, core.ErrIncompatibleUnit) {
		t.Errorf("increment in pieces = %v, want ErrIncompatibleUnit", err)
	}
	if _, err := f.stock.Increment(f.ctx, flour, d("0"), "g"); err == nil {
		t.Error("zero increment accepted")
	}
}

func TestStockLedger_DecrementUntrackedFails(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	yeast := f.ingredientID(t, "yeast")

	if _, err := f.stock.Decrement(f.ctx, yeast, d("5"), "g"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Decrement = %v, want ErrNotFound", err)
	}
	if _, ok := f.stockOf(t, "yeast"); ok {
		t.Error("decrement created an entry")
	}

	e, err := f.stock.Increment(f.ctx, yeast, d("2"), "cas")
	if err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if e.Unit.Code != "cas" || !e.QuantityNormalized.Equal(d("30")) {
		t.Errorf("created entry = %s %s (%s)", e.Quantity, e.Unit.Code, e.QuantityNormalized)
	}
}

func TestStockLedger_ListAndDelete(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.setStock(t, "milk", "1", "l")
	f.setStock(t, "apples", "6", "piece")

	entries, err := f.stock.List(f.ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[0].IngredientName != "apples" {
		t.Errorf("entries = %+v", entries)
	}

	milk := f.ingredientID(t, "milk")
	if err := f.stock.Delete(f.ctx, milk); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := f.stock.Delete(f.ctx, milk); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
	if entries, _ := f.stock.List(f.ctx); len(entries) != 1 {
		t.Errorf("entries after delete = %d", len(entries))
	}
}
