package amoebawars

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a 3D vector. Up is negative Y and the floor is the plane Y = 0.
type Vec3 = mgl64.Vec3

// V returns the vector (x, y, z).
func V(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Dist returns the distance between two points.
func Dist(a, b Vec3) float64 {
	return a.Sub(b).Len()
}

// Normalize returns the unit vector pointing like v.
// Zero or non-finite vectors have no direction and yield ErrDegenerateGeometry.
func Normalize(v Vec3) (Vec3, error) {
	n := v.Len()
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Vec3{}, fmt.Errorf("%w: cannot normalize %v", ErrDegenerateGeometry, v)
	}
	return v.Mul(1 / n), nil
}

// Cross returns the cross product a × b.
// Parallel or zero inputs yield ErrDegenerateGeometry.
func Cross(a, b Vec3) (Vec3, error) {
	c := a.Cross(b)
	if c.LenSqr() == 0 {
		return Vec3{}, fmt.Errorf("%w: %v and %v are parallel", ErrDegenerateGeometry, a, b)
	}
	return c, nil
}

// Direction returns the unit vector from u to v,
// or the zero vector when the points coincide.
func Direction(u, v Vec3) Vec3 {
	d, err := Normalize(v.Sub(u))
	if err != nil {
		return Vec3{}
	}
	return d
}

// finite reports whether every component of v is a finite number.
func finite(v Vec3) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
