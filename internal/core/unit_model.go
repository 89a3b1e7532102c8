package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Family is the physical dimension a unit measures.
type Family string

const (
	FamilyMass   Family = "mass"
	FamilyVolume Family = "volume"
	FamilyCount  Family = "count"
)

// BaseUnit is the common basis every quantity of a family is normalized to.
type BaseUnit string

const (
	BaseGram       BaseUnit = "g"
	BaseMilliliter BaseUnit = "ml"
	BasePiece      BaseUnit = "piece"
)

// baseUnitByFamily is the only legal family → base unit mapping.
var baseUnitByFamily = map[Family]BaseUnit{
	FamilyMass:   BaseGram,
	FamilyVolume: BaseMilliliter,
	FamilyCount:  BasePiece,
}

// Unit is immutable catalog reference data.
// Quantity × ConversionRatio = quantity in BaseUnit.
type Unit struct {
	ID              int64           `json:"id"`
	Code            string          `json:"code"`
	Family          Family          `json:"family"`
	BaseUnit        BaseUnit        `json:"base_unit"`
	ConversionRatio decimal.Decimal `json:"conversion_ratio"`
	IsDisplayable   bool            `json:"is_displayable"`
	NeedsArticle    bool            `json:"needs_article"` // "de"/"d'" precedes the ingredient name
}

// Validate checks the family/base unit pairing and the ratio.
func (u Unit) Validate() error {
	if u.Code == "" {
		return fmt.Errorf("unit %d: code is required", u.ID)
	}
	want, ok := baseUnitByFamily[u.Family]
	if !ok {
		return fmt.Errorf("unit %s: unknown family %q", u.Code, u.Family)
	}
	if u.BaseUnit != want {
		return fmt.Errorf("unit %s: family %s must convert to %s, got %s", u.Code, u.Family, want, u.BaseUnit)
	}
	if !u.ConversionRatio.IsPositive() {
		return fmt.Errorf("unit %s: conversion ratio must be positive, got %s", u.Code, u.ConversionRatio)
	}
	return nil
}

// IsBase reports whether u is the base unit of its family.
func (u Unit) IsBase() bool {
	return u.Code == string(u.BaseUnit)
}

// BaseUnitOf returns the base unit of family, or "" for an unknown family.
func BaseUnitOf(family Family) BaseUnit {
	return baseUnitByFamily[family]
}
