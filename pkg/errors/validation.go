package errors

import "math"

// RequirePositive returns an ErrCodeInvalidParams error unless v is a finite
// number strictly greater than zero.
func RequirePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParams, "%s must be a finite number", field)
	}
	if v <= 0 {
		return New(ErrCodeInvalidParams, "%s must be greater than 0 (got %g)", field, v)
	}
	return nil
}

// RequireAtLeast returns an ErrCodeInvalidParams error if v < floor.
func RequireAtLeast(field string, v, floor int) error {
	if v < floor {
		return New(ErrCodeInvalidParams, "%s must be at least %d (got %d)", field, floor, v)
	}
	return nil
}

// RequireFinite returns an ErrCodeInvalidInput error for NaN or infinite values.
// Positions and deltas coming from input devices are checked with this.
func RequireFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", field)
	}
	return nil
}

// RequireRange returns an ErrCodeInvalidConfig error unless lo <= v <= hi.
func RequireRange(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return New(ErrCodeInvalidConfig, "%s must be within [%g, %g] (got %g)", field, lo, hi, v)
	}
	return nil
}
