package geometry

import (
	"math"

	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
)

// coneSlope is tan² of the half-angle: base radius 0.5 over height 1
const coneSlope = 0.25

// Cone is the implicit cone with its apex at Y=+0.5 and a base of radius
// 0.5 at Y=-0.5, capped at the base
type Cone struct{}

// Intersect solves the lateral-surface quadratic
// x² + z² = 0.25·(y - 0.5)², rejects roots outside the Y range, tests the
// base cap, and returns the smallest valid positive parameter
func (Cone) Intersect(ray mathpkg.Ray) (float64, bool) {
	best := math.Inf(1)
	found := false

	oy := ray.Origin.Y - halfHeight // shifted so the apex sits at 0
	dy := ray.Direction.Y

	a := ray.Direction.X*ray.Direction.X + ray.Direction.Z*ray.Direction.Z - coneSlope*dy*dy
	b := 2 * (ray.Origin.X*ray.Direction.X + ray.Origin.Z*ray.Direction.Z - coneSlope*oy*dy)
	c := ray.Origin.X*ray.Origin.X + ray.Origin.Z*ray.Origin.Z - coneSlope*oy*oy

	if t0, t1, ok := quadraticRoots(a, b, c); ok {
		for _, t := range [2]float64{t0, t1} {
			if t <= epsilon || t >= best {
				continue
			}
			y := ray.Origin.Y + t*ray.Direction.Y
			if y >= -halfHeight && y <= halfHeight {
				best = t
				found = true
				break
			}
		}
	}

	if t, ok := capHit(ray, -halfHeight, cylinderRadius); ok && t < best {
		best = t
		found = true
	}

	return best, found
}

// NormalAt returns the radial-with-slope direction on the body and the
// axis direction on the base cap. The body normal rises at half the radial
// magnitude, matching the 2:1 height-to-radius ratio.
func (Cone) NormalAt(point mathpkg.Vec3) mathpkg.Vec3 {
	const capEpsilon = 1e-4
	if math.Abs(point.Y+halfHeight) < capEpsilon {
		return mathpkg.NewVec3(0, -1, 0)
	}
	radial := math.Sqrt(point.X*point.X + point.Z*point.Z)
	if radial < epsilon {
		// apex: no well defined normal, use the axis
		return mathpkg.NewVec3(0, 1, 0)
	}
	return mathpkg.NewVec3(point.X, radial*0.5, point.Z).Normalize()
}

// UVAt wraps the lateral angle to u and height to v; the base cap
// projects planarly
func (c Cone) UVAt(point mathpkg.Vec3) (float64, float64) {
	n := c.NormalAt(point)
	if n.Y < -0.5 {
		return point.X + halfSide, point.Z + halfSide
	}
	u := 0.5 - math.Atan2(point.Z, point.X)/(2*math.Pi)
	return u, point.Y + halfHeight
}
