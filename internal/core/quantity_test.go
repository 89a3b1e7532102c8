package core_test

import (
	"errors"
	"testing"

	"mealplanner/internal/core"
)

func TestNormalizeDenormalize_RoundTrip(t *testing.T) {
	t.Parallel()
	quantities := []string{"0.5", "1", "3", "250", "1234.567", "0.001"}
	for _, u := range testUnits {
		for _, q := range quantities {
			base := core.Normalize(d(q), u)
			back, err := core.Denormalize(base, u.BaseUnit, u)
			if err != nil {
				t.Fatalf("%s %s: %v", q, u.Code, err)
			}
			if !back.Round(9).Equal(d(q)) {
				t.Errorf("round trip of %s %s = %s", q, u.Code, back)
			}
		}
	}
}

func TestNormalize_UsesConversionRatio(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	if got := core.Normalize(d("1.5"), mustUnit(t, c, "kg")); !got.Equal(d("1500")) {
		t.Errorf("1.5 kg = %s g, want 1500", got)
	}
	if got := core.Normalize(d("2"), mustUnit(t, c, "cas")); !got.Equal(d("30")) {
		t.Errorf("2 cas = %s ml, want 30", got)
	}
}

func TestDenormalize_IncompatibleUnit(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	_, err := core.Denormalize(d("100"), core.BaseGram, mustUnit(t, c, "ml"))
	if !errors.Is(err, core.ErrIncompatibleUnit) {
		t.Fatalf("expected ErrIncompatibleUnit, got %v", err)
	}
}

func TestBestDisplayUnit(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		base     string
		baseUnit core.BaseUnit
		wantQty  string
		wantUnit string
	}{
		{"whole kilograms", "2000", core.BaseGram, "2", "kg"},
		{"fractional kilograms stay in grams", "1500", core.BaseGram, "1500", "g"},
		{"centiliters", "250", core.BaseMilliliter, "25", "cl"},
		{"liters not whole", "1250", core.BaseMilliliter, "125", "cl"},
		{"below one of everything", "0.5", core.BaseGram, "0.5", "g"},
		{"no whole unit, rounded", "1.5", core.BaseGram, "1.5", "g"},
		{"dozens", "24", core.BasePiece, "2", "douzaine"},
		{"pieces", "18", core.BasePiece, "18", "piece"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := core.BestDisplayUnit(d(tt.base), tt.baseUnit, testUnits)
			if !ok {
				t.Fatalf("no display unit for %s %s", tt.base, tt.baseUnit)
			}
			if got.Unit.Code != tt.wantUnit || !got.Quantity.Equal(d(tt.wantQty)) {
				t.Errorf("got %s %s, want %s %s", got.Quantity, got.Unit.Code, tt.wantQty, tt.wantUnit)
			}
		})
	}
}

func TestBestDisplayUnit_NoCandidateInFamily(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	if _, ok := core.BestDisplayUnit(d("5"), core.BaseMilliliter, c.UnitsForBase(core.BaseGram)); ok {
		t.Error("expected no display unit for ml among mass units")
	}
}
