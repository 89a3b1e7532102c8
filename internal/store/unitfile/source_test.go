package unitfile_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"mealplanner/internal/core"
	"mealplanner/internal/store/unitfile"
)

func TestShippedUnitFileBuildsCatalog(t *testing.T) {
	catalog, err := core.NewUnitCatalog(context.Background(), unitfile.New("../../../config/units.yaml"))
	if err != nil {
		t.Fatalf("NewUnitCatalog: %v", err)
	}
	if got := len(catalog.ListUnits()); got != 12 {
		t.Errorf("units = %d, want 12", got)
	}

	cas, err := catalog.FindByCode("CAS")
	if err != nil {
		t.Fatalf("FindByCode: %v", err)
	}
	if cas.BaseUnit != core.BaseMilliliter || !cas.ConversionRatio.Equal(decimal.NewFromInt(15)) || cas.IsDisplayable {
		t.Errorf("cas = %+v", cas)
	}
	if _, err := catalog.FindByCode("pinch"); !errors.Is(err, core.ErrUnknownUnit) {
		t.Errorf("FindByCode(pinch) = %v, want ErrUnknownUnit", err)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "valid", doc: "units:\n  - {id: 1, code: g, family: mass, ratio: \"1\", displayable: true}\n"},
		{name: "bad ratio", doc: "units:\n  - {id: 1, code: g, family: mass, ratio: \"one\"}\n", wantErr: true},
		{name: "not yaml", doc: "units: [", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units, err := unitfile.Decode(strings.NewReader(tt.doc))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (len(units) != 1 || units[0].BaseUnit != core.BaseGram) {
				t.Errorf("units = %+v", units)
			}
		})
	}
}

func TestMissingFile(t *testing.T) {
	if _, err := unitfile.New("does-not-exist.yaml").LoadUnits(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}
