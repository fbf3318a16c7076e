package errors

import "math"

// ValidateSides checks the side count of a regular polygon.
// A polygon needs at least three vertices to enclose an area.
func ValidateSides(n int) error {
	if n < 3 {
		return New(ErrCodeInvalidSides, "polygon needs at least 3 sides, got %d", n)
	}
	return nil
}

// ValidateRadius checks that a radius is a finite, non-negative number.
// A radius of zero is allowed and collapses the polygon onto its center.
func ValidateRadius(r float64) error {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return New(ErrCodeInvalidRadius, "radius must be finite, got %v", r)
	}
	if r < 0 {
		return New(ErrCodeInvalidRadius, "radius must be non-negative, got %v", r)
	}
	return nil
}

// ValidatePositive checks that a named configuration value is finite and > 0.
func ValidatePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be a positive number, got %v", field, v)
	}
	return nil
}

// ValidateNonNegative checks that a named configuration value is finite and >= 0.
func ValidateNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return New(ErrCodeInvalidConfig, "%s must be a non-negative number, got %v", field, v)
	}
	return nil
}

// ValidateFinite checks that a named configuration value is a finite number.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be finite, got %v", field, v)
	}
	return nil
}

// ValidateUnit checks that a named value lies in the closed interval [0, max].
// It is used for color channels expressed in a color mode's ranges.
func ValidateUnit(field string, v, max float64) error {
	if math.IsNaN(v) || v < 0 || v > max {
		return New(ErrCodeInvalidConfig, "%s must be within [0, %v], got %v", field, max, v)
	}
	return nil
}

// ValidateFrame checks that a frame counter is non-negative.
func ValidateFrame(t int) error {
	if t < 0 {
		return New(ErrCodeInvalidFrame, "frame counter must be non-negative, got %d", t)
	}
	return nil
}
