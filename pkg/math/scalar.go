package math

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Epsilon is the tolerance used for degenerate lengths.
const Epsilon = 1e-6

// Clamp returns f clamped to [low, high].
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Clamp01 clamps f to [0, 1].
func Clamp01(f float32) float32 {
	return Clamp(f, 0, 1)
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math.Pi / 180
}
