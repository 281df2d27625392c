package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxNodeIDLength bounds node identifiers read from graph documents.
const maxNodeIDLength = 256

// ValidateScale checks a zoom factor or viewport scale.
// The canvas transform degenerates for anything that is not a positive,
// finite number, so gestures are rejected here before they reach it.
func ValidateScale(scale float64) error {
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return New(ErrCodeInvalidInput, "scale must be finite, got %v", scale)
	}
	if scale <= 0 {
		return New(ErrCodeInvalidInput, "scale must be positive, got %v", scale)
	}
	return nil
}

// ValidatePoint checks that both coordinates are finite.
func ValidatePoint(x, y float64) error {
	if !finite(x) || !finite(y) {
		return New(ErrCodeInvalidInput, "point (%v, %v) must have finite coordinates", x, y)
	}
	return nil
}

// ValidateOpenness checks an expand/collapse factor, which lives in [0,1].
func ValidateOpenness(openness float64) error {
	if !finite(openness) || openness < 0 || openness > 1 {
		return New(ErrCodeInvalidInput, "openness must be within [0, 1], got %v", openness)
	}
	return nil
}

// ValidateExtent checks a measured size: finite and non-negative.
func ValidateExtent(name string, w, h float64) error {
	if !finite(w) || !finite(h) {
		return New(ErrCodeInvalidInput, "%s must be finite, got (%v, %v)", name, w, h)
	}
	if w < 0 || h < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative, got (%v, %v)", name, w, h)
	}
	return nil
}

// ValidateNodeID validates a node identifier from a graph document.
//
// The rules are conservative:
//   - No empty identifiers
//   - No control characters
//   - No surrounding whitespace
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "node id cannot be empty")
	}

	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidGraph, "node id too long (max %d characters)", maxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node id contains invalid control characters")
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidGraph, "node id %q has surrounding whitespace", id)
	}

	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
