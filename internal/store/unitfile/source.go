// Package unitfile reads the unit reference table from a YAML document.
package unitfile

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"mealplanner/internal/core"
)

type document struct {
	Units []unitRecord `yaml:"units"`
}

type unitRecord struct {
	ID          int64  `yaml:"id"`
	Code        string `yaml:"code"`
	Family      string `yaml:"family"`
	Ratio       string `yaml:"ratio"`
	Displayable bool   `yaml:"displayable"`
	Article     bool   `yaml:"article"`
}

// Source is a core.UnitSource backed by a YAML file. The file is re-read on
// every load so a catalog Reload picks up edits.
type Source struct {
	Path string
}

func New(path string) *Source {
	return &Source{Path: path}
}

func (s *Source) LoadUnits(_ context.Context) ([]core.Unit, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open unit file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a unit document. The base unit is derived from the family;
// consistency is checked by the catalog.
func Decode(r io.Reader) ([]core.Unit, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse unit file: %w", err)
	}

	units := make([]core.Unit, 0, len(doc.Units))
	for i, rec := range doc.Units {
		ratio, err := decimal.NewFromString(rec.Ratio)
		if err != nil {
			return nil, fmt.Errorf("unit %d (%s): invalid ratio %q: %w", i+1, rec.Code, rec.Ratio, err)
		}
		family := core.Family(rec.Family)
		units = append(units, core.Unit{
			ID:              rec.ID,
			Code:            rec.Code,
			Family:          family,
			BaseUnit:        core.BaseUnitOf(family),
			ConversionRatio: ratio,
			IsDisplayable:   rec.Displayable,
			NeedsArticle:    rec.Article,
		})
	}
	return units, nil
}
