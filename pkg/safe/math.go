// Package safe provides saturating int64 arithmetic for window and timestamp
// math. Saturation keeps widening look-back computations well-defined instead
// of wrapping on overflow.
package safe

import "math"

// AddClamp returns a+b, clamped to the int64 range on overflow.
func AddClamp(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	if b < 0 && a < math.MinInt64-b {
		return math.MinInt64
	}
	return a + b
}

// MulClamp returns a*b, clamped to the int64 range on overflow.
func MulClamp(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > 0 && b > 0 {
		if a > math.MaxInt64/b {
			return math.MaxInt64
		}
	} else if a < 0 && b < 0 {
		if a < math.MaxInt64/b {
			return math.MaxInt64
		}
	} else {
		x, y := a, b
		if x > 0 {
			x, y = y, x
		}
		// x < 0, y > 0
		if x < math.MinInt64/y {
			return math.MinInt64
		}
	}
	return a * b
}
