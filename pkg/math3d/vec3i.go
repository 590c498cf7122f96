package math3d

import "fmt"

// Vec3i is a point on the integer lattice. 2D points use Z = 0.
type Vec3i struct {
	X, Y, Z int
}

// V3i creates a new Vec3i.
func V3i(x, y, z int) Vec3i {
	return Vec3i{x, y, z}
}

// Add returns the vector sum a + b.
func (a Vec3i) Add(b Vec3i) Vec3i {
	return Vec3i{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the vector difference a - b.
func (a Vec3i) Sub(b Vec3i) Vec3i {
	return Vec3i{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale returns the scalar product a * s.
func (a Vec3i) Scale(s int) Vec3i {
	return Vec3i{a.X * s, a.Y * s, a.Z * s}
}

// Dot returns the dot product a · b.
func (a Vec3i) Dot(b Vec3i) int {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product a × b.
func (a Vec3i) Cross(b Vec3i) Vec3i {
	return Vec3i{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Abs returns the component-wise absolute value.
func (a Vec3i) Abs() Vec3i {
	return Vec3i{Abs(a.X), Abs(a.Y), Abs(a.Z)}
}

// At returns the component on axis i (0=X, 1=Y, 2=Z).
// It panics if i is not a valid axis.
func (a Vec3i) At(i int) int {
	switch i {
	case 0:
		return a.X
	case 1:
		return a.Y
	case 2:
		return a.Z
	}
	panic(fmt.Sprintf("math3d: axis %d out of range", i))
}

// Set assigns v to the component on axis i.
// It panics if i is not a valid axis.
func (a *Vec3i) Set(i, v int) {
	switch i {
	case 0:
		a.X = v
	case 1:
		a.Y = v
	case 2:
		a.Z = v
	default:
		panic(fmt.Sprintf("math3d: axis %d out of range", i))
	}
}

// Float converts to floating-point coordinates.
func (a Vec3i) Float() Vec3 {
	return Vec3{float64(a.X), float64(a.Y), float64(a.Z)}
}

func (a Vec3i) String() string {
	return fmt.Sprintf("(%d, %d, %d)", a.X, a.Y, a.Z)
}
