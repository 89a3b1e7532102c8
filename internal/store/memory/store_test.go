package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mealplanner/internal/core"
	"mealplanner/internal/store/memory"
)

var gram = core.Unit{ID: 2, Code: "g", Family: core.FamilyMass, BaseUnit: core.BaseGram, ConversionRatio: decimal.NewFromInt(1), IsDisplayable: true}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	flour, err := s.CreateIngredient(ctx, core.Ingredient{Name: "flour"})
	if err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}

	boom := errors.New("boom")
	err = s.RunInTx(ctx, func(q core.Queries) error {
		if err := q.UpsertStock(ctx, core.StockEntry{IngredientID: flour.ID, Quantity: decimal.NewFromInt(5), Unit: gram, QuantityNormalized: decimal.NewFromInt(5)}); err != nil {
			return err
		}
		if _, err := q.CreateIngredient(ctx, core.Ingredient{Name: "sugar"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("RunInTx = %v, want boom", err)
	}

	if _, err := s.GetStockEntry(ctx, flour.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("stock survived rollback: %v", err)
	}
	if _, err := s.FindIngredientByName(ctx, "sugar"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("ingredient survived rollback: %v", err)
	}
}

func TestMarkMealPrepared_FlipsOnce(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	id, err := s.InsertMeal(ctx, core.PlannedMeal{Date: time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), MealType: core.MealLunch, Servings: 2})
	if err != nil {
		t.Fatalf("InsertMeal: %v", err)
	}

	at := time.Date(2024, 3, 13, 19, 0, 0, 0, time.UTC)
	for i, want := range []bool{true, false} {
		flipped, err := s.MarkMealPrepared(ctx, id, at)
		if err != nil {
			t.Fatalf("MarkMealPrepared #%d: %v", i+1, err)
		}
		if flipped != want {
			t.Errorf("MarkMealPrepared #%d = %v, want %v", i+1, flipped, want)
		}
	}

	m, err := s.GetMeal(ctx, id)
	if err != nil {
		t.Fatalf("GetMeal: %v", err)
	}
	if !m.IsPrepared || m.PreparedAt == nil || !m.PreparedAt.Equal(at) {
		t.Errorf("meal = %+v", m)
	}
}

func TestStock_RequiresKnownIngredient(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	err := s.UpsertStock(ctx, core.StockEntry{IngredientID: 7, Quantity: decimal.NewFromInt(1), Unit: gram, QuantityNormalized: decimal.NewFromInt(1)})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("UpsertStock = %v, want ErrNotFound", err)
	}
	if err := s.DeleteStock(ctx, 7); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("DeleteStock = %v, want ErrNotFound", err)
	}
}

func TestDeleteMeal_KeepsMovementHistory(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	rice, _ := s.CreateIngredient(ctx, core.Ingredient{Name: "rice"})
	mealID, _ := s.InsertMeal(ctx, core.PlannedMeal{Date: time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), MealType: core.MealDinner, Servings: 1})
	if err := s.InsertMovement(ctx, core.StockMovement{IngredientID: rice.ID, Delta: decimal.NewFromInt(-80), BaseUnit: core.BaseGram, Reason: core.MovementPrepare, MealID: &mealID}); err != nil {
		t.Fatalf("InsertMovement: %v", err)
	}

	if err := s.DeleteMeal(ctx, mealID); err != nil {
		t.Fatalf("DeleteMeal: %v", err)
	}
	movements, err := s.ListMovements(ctx, rice.ID)
	if err != nil {
		t.Fatalf("ListMovements: %v", err)
	}
	if len(movements) != 1 || movements[0].MealID != nil {
		t.Errorf("movements = %+v, want one detached movement", movements)
	}
}
