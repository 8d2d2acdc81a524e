package geometry

import (
	"math"

	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
)

const (
	cylinderRadius = 0.5
	halfHeight     = 0.5
)

// Cylinder is the implicit cylinder of radius 0.5 and height 1, centered
// at the origin with its axis along local Y, capped at both ends
type Cylinder struct{}

// Intersect solves the quadratic for the infinite lateral surface in X/Z,
// rejects roots whose Y lies outside [-0.5, 0.5], tests both end caps, and
// returns the smallest valid positive parameter
func (Cylinder) Intersect(ray mathpkg.Ray) (float64, bool) {
	best := math.Inf(1)
	found := false

	a := ray.Direction.X*ray.Direction.X + ray.Direction.Z*ray.Direction.Z
	b := 2 * (ray.Origin.X*ray.Direction.X + ray.Origin.Z*ray.Direction.Z)
	c := ray.Origin.X*ray.Origin.X + ray.Origin.Z*ray.Origin.Z - cylinderRadius*cylinderRadius

	if t0, t1, ok := quadraticRoots(a, b, c); ok {
		for _, t := range [2]float64{t0, t1} {
			if t <= epsilon || t >= best {
				continue
			}
			y := ray.Origin.Y + t*ray.Direction.Y
			if y >= -halfHeight && y <= halfHeight {
				best = t
				found = true
				break // roots are ordered, the first valid one is nearest
			}
		}
	}

	if t, ok := capHit(ray, halfHeight, cylinderRadius); ok && t < best {
		best = t
		found = true
	}
	if t, ok := capHit(ray, -halfHeight, cylinderRadius); ok && t < best {
		best = t
		found = true
	}

	return best, found
}

// capHit intersects the ray with the horizontal disc of the given radius
// at plane Y = y. Rays parallel to the plane miss the cap.
func capHit(ray mathpkg.Ray, y, radius float64) (float64, bool) {
	if math.Abs(ray.Direction.Y) < epsilon {
		return 0, false
	}
	t := (y - ray.Origin.Y) / ray.Direction.Y
	if t <= epsilon {
		return 0, false
	}
	x := ray.Origin.X + t*ray.Direction.X
	z := ray.Origin.Z + t*ray.Direction.Z
	if x*x+z*z > radius*radius {
		return 0, false
	}
	return t, true
}

// NormalAt returns the radial direction with flat Y on the body and the
// axis direction on the caps
func (Cylinder) NormalAt(point mathpkg.Vec3) mathpkg.Vec3 {
	const capEpsilon = 1e-4
	if math.Abs(point.Y-halfHeight) < capEpsilon {
		return mathpkg.NewVec3(0, 1, 0)
	}
	if math.Abs(point.Y+halfHeight) < capEpsilon {
		return mathpkg.NewVec3(0, -1, 0)
	}
	return mathpkg.NewVec3(point.X, 0, point.Z).Normalize()
}

// UVAt wraps the lateral angle to u and height to v; caps project planarly
func (c Cylinder) UVAt(point mathpkg.Vec3) (float64, float64) {
	n := c.NormalAt(point)
	if math.Abs(n.Y) > 0.5 {
		return point.X + halfSide, point.Z + halfSide
	}
	u := 0.5 - math.Atan2(point.Z, point.X)/(2*math.Pi)
	return u, point.Y + halfHeight
}
