package core

import "errors"

var (
	// ErrUnknownUnit is returned when a unit code or id is not in the catalog.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrIncompatibleUnit is returned when a quantity is converted into a unit of another family.
	ErrIncompatibleUnit = errors.New("incompatible unit")

	// ErrInvalidServings is returned for non-positive base or target servings.
	ErrInvalidServings = errors.New("servings must be positive")

	// ErrMissingRecipeReference marks a meal whose recipe no longer exists.
	// It is tolerated: the meal contributes nothing.
	ErrMissingRecipeReference = errors.New("missing recipe reference")

	// ErrInvalidInput is returned for malformed caller input that no other sentinel covers.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned by store adapters when a record does not exist.
	ErrNotFound = errors.New("not found")
)
