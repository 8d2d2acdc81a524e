package geometry

import (
	"math"

	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
)

// sphereRadius is the radius of the implicit unit sphere
const sphereRadius = 0.5

// Sphere is the implicit sphere of radius 0.5 centered at the origin
type Sphere struct{}

// Intersect solves |o + t·d|² = r² and returns the smaller positive root
func (Sphere) Intersect(ray mathpkg.Ray) (float64, bool) {
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * ray.Origin.Dot(ray.Direction)
	c := ray.Origin.Dot(ray.Origin) - sphereRadius*sphereRadius

	t0, t1, ok := quadraticRoots(a, b, c)
	if !ok {
		return 0, false
	}
	if t0 > epsilon {
		return t0, true
	}
	if t1 > epsilon {
		return t1, true
	}
	return 0, false
}

// NormalAt returns the surface position itself, normalized
func (Sphere) NormalAt(point mathpkg.Vec3) mathpkg.Vec3 {
	return point.Normalize()
}

// UVAt maps the sphere with equirectangular coordinates: longitude to u,
// latitude to v
func (Sphere) UVAt(point mathpkg.Vec3) (float64, float64) {
	u := 0.5 - math.Atan2(point.Z, point.X)/(2*math.Pi)
	v := 0.5 + math.Asin(clampUnit(point.Y/sphereRadius))/math.Pi
	return u, v
}

// clampUnit keeps asin arguments in range against floating point drift
func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
