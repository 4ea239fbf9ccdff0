package errors

import (
	"maps"
	"math"
	"slices"
	"strings"
	"unicode"
)

// ValidateFinite rejects NaN and ±Inf for the named quantity.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", name, v)
	}
	return nil
}

// ValidatePositive rejects values that are not finite and strictly positive.
func ValidatePositive(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %g", name, v)
	}
	return nil
}

// ValidateFraction checks that a mole fraction lies in the open interval (0, 1).
// The endpoints are excluded because the Fenske and volatility expressions
// divide by x and 1-x.
func ValidateFraction(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v <= 0 || v >= 1 {
		return New(ErrCodeInvalidComposition, "%s must lie in (0, 1), got %g", name, v)
	}
	return nil
}

// ValidateOrdered checks x_B < x_F < x_D. Equal compositions make the
// lever-rule balance divide by zero.
func ValidateOrdered(xb, xf, xd float64) error {
	if !(xb < xf) {
		return New(ErrCodeInvalidComposition, "x_B (%g) must be below x_F (%g)", xb, xf)
	}
	if !(xf < xd) {
		return New(ErrCodeInvalidComposition, "x_F (%g) must be below x_D (%g)", xf, xd)
	}
	return nil
}

// ValidateName validates a free-text design label.
//
// Validation rules:
//   - Maximum length of 128 characters
//   - No control characters
func ValidateName(name string) error {
	const maxNameLength = 128
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}
	return nil
}

// ValidateFormat checks an output format against the supported set.
func ValidateFormat(format string, valid map[string]bool) error {
	if !valid[format] {
		names := slices.Sorted(maps.Keys(valid))
		return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(names, ", "))
	}
	return nil
}
