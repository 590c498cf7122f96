package render

import (
	"iter"

	"github.com/taigrr/toyrender/pkg/math3d"
)

// LineRasterizer walks the integer lattice points of a 3D line segment
// (2D lines use Z = 0). Every step advances the major axis, the axis with
// the largest absolute delta, by exactly one unit. Each minor axis keeps
// its own error accumulator and steps when it reaches the major span.
//
// A LineRasterizer is single use: once Next reports false it stays
// exhausted.
type LineRasterizer struct {
	cur, to   math3d.Vec3i
	step      math3d.Vec3i
	delta     math3d.Vec3i // absolute per-axis delta
	err       [3]int
	major     int
	span      int
	remaining int
}

// NewLineRasterizer prepares a walk from from to to. The current point
// starts at from.
func NewLineRasterizer(from, to math3d.Vec3i) *LineRasterizer {
	d := to.Sub(from)
	l := &LineRasterizer{
		cur:   from,
		to:    to,
		step:  math3d.V3i(math3d.Sign(d.X), math3d.Sign(d.Y), math3d.Sign(d.Z)),
		delta: d.Abs(),
	}
	for axis := 1; axis < 3; axis++ {
		if l.delta.At(axis) > l.delta.At(l.major) {
			l.major = axis
		}
	}
	l.span = l.delta.At(l.major)
	l.remaining = l.span

	// Seeding the accumulators by direction makes from→to and to→from
	// visit the same points.
	if l.step.At(l.major) < 0 && l.span > 0 {
		for axis := range 3 {
			if axis != l.major {
				l.err[axis] = l.span - 1
			}
		}
	}
	return l
}

// Next advances one step and reports whether a step was taken. It returns
// false once the current point equals the end point.
func (l *LineRasterizer) Next() bool {
	if l.remaining == 0 {
		return false
	}
	l.remaining--

	l.cur.Set(l.major, l.cur.At(l.major)+l.step.At(l.major))
	for axis := range 3 {
		if axis == l.major {
			continue
		}
		l.err[axis] += l.delta.At(axis)
		if l.err[axis] >= l.span {
			l.err[axis] -= l.span
			l.cur.Set(axis, l.cur.At(axis)+l.step.At(axis))
		}
	}
	return true
}

// Advance takes up to n steps at once and returns how many were taken. The
// result is the same as calling Next n times.
func (l *LineRasterizer) Advance(n int) int {
	n = min(max(n, 0), l.remaining)
	if n == 0 {
		return 0
	}
	l.remaining -= n

	l.cur.Set(l.major, l.cur.At(l.major)+n*l.step.At(l.major))
	for axis := range 3 {
		if axis == l.major {
			continue
		}
		total := l.err[axis] + n*l.delta.At(axis)
		l.err[axis] = total % l.span
		l.cur.Set(axis, l.cur.At(axis)+total/l.span*l.step.At(axis))
	}
	return n
}

// StepsTo returns the number of steps after which the current point has
// moved n units along axis. It returns -1 when the rest of the line moves
// less than n units on that axis.
func (l *LineRasterizer) StepsTo(axis, n int) int {
	if n <= 0 {
		return 0
	}
	if axis == l.major {
		if n > l.remaining {
			return -1
		}
		return n
	}
	d := l.delta.At(axis)
	// smallest k with err + k*d >= n*span
	k := -1
	if d > 0 {
		k = (n*l.span - l.err[axis] + d - 1) / d
	}
	if k < 0 || k > l.remaining {
		return -1
	}
	return k
}

// Point returns the current lattice point.
func (l *LineRasterizer) Point() math3d.Vec3i {
	return l.cur
}

// Span returns the total number of steps from start to end, which is the
// absolute delta along the major axis.
func (l *LineRasterizer) Span() int {
	return l.span
}

// Taken returns the number of steps already taken.
func (l *LineRasterizer) Taken() int {
	return l.span - l.remaining
}

// MajorAxis returns the axis advanced on every step (0=X, 1=Y, 2=Z).
func (l *LineRasterizer) MajorAxis() int {
	return l.major
}

// Steps yields every point after the current one, ending with the end
// point. It yields nothing for a zero-length line.
func (l *LineRasterizer) Steps() iter.Seq[math3d.Vec3i] {
	return func(yield func(math3d.Vec3i) bool) {
		for l.Next() {
			if !yield(l.cur) {
				return
			}
		}
	}
}

// Walk yields the current point and then every remaining step. On a fresh
// rasterizer this is every lattice point of the line, both ends included.
func (l *LineRasterizer) Walk() iter.Seq[math3d.Vec3i] {
	return func(yield func(math3d.Vec3i) bool) {
		if !yield(l.cur) {
			return
		}
		for l.Next() {
			if !yield(l.cur) {
				return
			}
		}
	}
}

// Line returns every lattice point from from to to inclusive.
func Line(from, to math3d.Vec3i) iter.Seq[math3d.Vec3i] {
	return NewLineRasterizer(from, to).Walk()
}
