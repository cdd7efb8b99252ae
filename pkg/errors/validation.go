package errors

import "slices"

// ValidatePositive rejects values below one.
func ValidatePositive(field string, v int) error {
	if v < 1 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %d", field, v)
	}
	return nil
}

// ValidateRange rejects values outside [lo, hi].
func ValidateRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return New(ErrCodeInvalidConfig, "%s must be within %d..%d, got %d", field, lo, hi, v)
	}
	return nil
}

// ValidateChoice rejects values not listed in allowed. The code lets callers
// distinguish which option was wrong.
func ValidateChoice[T ~string](code Code, field string, v T, allowed []T) error {
	if slices.Contains(allowed, v) {
		return nil
	}
	return New(code, "invalid %s: %q (must be one of: %s)", field, v, joinChoices(allowed))
}

func joinChoices[T ~string](allowed []T) string {
	out := ""
	for i, a := range allowed {
		if i > 0 {
			out += ", "
		}
		out += string(a)
	}
	return out
}
