package math3d

import "golang.org/x/exp/constraints"

// Abs returns the absolute value of x.
func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1 for negative x and +1 otherwise. Zero counts as positive
// so that a stepping direction is always defined.
func Sign[V constraints.Signed | constraints.Float](x V) V {
	if x < 0 {
		return -1
	}
	return 1
}

// Clamp limits x to the closed range [low, high].
func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	}
	if x > high {
		return high
	}
	return x
}
