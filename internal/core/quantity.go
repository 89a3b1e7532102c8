package core

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// noisePlaces is the precision kept before rounding decisions (whole-number
// checks, ceilings) so that division remainders like 69.99999999 do not flip them.
const noisePlaces = 6

// Normalize converts a quantity expressed in unit into the unit's base quantity.
func Normalize(quantity decimal.Decimal, unit Unit) decimal.Decimal {
	return quantity.Mul(unit.ConversionRatio)
}

// Denormalize converts a base quantity into unit. The quantity must already be
// expressed in base; a unit of another family fails with ErrIncompatibleUnit.
func Denormalize(base decimal.Decimal, baseUnit BaseUnit, unit Unit) (decimal.Decimal, error) {
	if unit.BaseUnit != baseUnit {
		return decimal.Zero, fmt.Errorf("cannot express %s in %s (%s): %w", baseUnit, unit.Code, unit.BaseUnit, ErrIncompatibleUnit)
	}
	if !unit.ConversionRatio.IsPositive() {
		return decimal.Zero, fmt.Errorf("unit %s has no usable conversion ratio: %w", unit.Code, ErrIncompatibleUnit)
	}
	return base.Div(unit.ConversionRatio), nil
}

// DisplayQuantity is a quantity paired with the unit it should be shown in.
type DisplayQuantity struct {
	Quantity decimal.Decimal `json:"quantity"`
	Unit     Unit            `json:"unit"`
}

// BestDisplayUnit picks the most readable unit for a base quantity:
// the largest displayable unit giving a whole number ≥ 1, else the largest
// giving ≥ 1 (rounded to 2 decimals), else the base unit at the raw quantity.
// It returns false when no candidate normalizes to baseUnit.
func BestDisplayUnit(base decimal.Decimal, baseUnit BaseUnit, candidates []Unit) (DisplayQuantity, bool) {
	var family []Unit
	for _, u := range candidates {
		if u.BaseUnit == baseUnit && u.ConversionRatio.IsPositive() {
			family = append(family, u)
		}
	}
	if len(family) == 0 {
		return DisplayQuantity{}, false
	}
	sort.SliceStable(family, func(i, j int) bool {
		return family[i].ConversionRatio.GreaterThan(family[j].ConversionRatio)
	})

	one := decimal.NewFromInt(1)
	var fallback *DisplayQuantity
	for _, u := range family {
		if !u.IsDisplayable {
			continue
		}
		q := base.Div(u.ConversionRatio).Round(noisePlaces)
		if q.LessThan(one) {
			continue
		}
		if q.Equal(q.Truncate(0)) {
			return DisplayQuantity{Quantity: q, Unit: u}, true
		}
		if fallback == nil {
			fallback = &DisplayQuantity{Quantity: q.Round(2), Unit: u}
		}
	}
	if fallback != nil {
		return *fallback, true
	}

	// Base unit itself, or the finest unit of the family when the base unit is not a candidate.
	baseCandidate := family[len(family)-1]
	for _, u := range family {
		if u.IsBase() {
			baseCandidate = u
			break
		}
	}
	return DisplayQuantity{Quantity: base.Div(baseCandidate.ConversionRatio), Unit: baseCandidate}, true
}
