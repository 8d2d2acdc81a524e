package geometry

import (
	"math"

	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
)

// halfSide is the distance from the cube center to each face
const halfSide = 0.5

// Cube is the implicit axis-aligned cube of side 1 centered at the origin
type Cube struct{}

// Intersect tests the six face planes at ±0.5. A plane hit counts only if
// the other two coordinates at that parameter lie within the face; the
// smallest accepted positive parameter wins. Faces parallel to the ray
// direction are skipped rather than divided through.
func (Cube) Intersect(ray mathpkg.Ray) (float64, bool) {
	best := math.Inf(1)
	found := false

	o := [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	d := [3]float64{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}

	for axis := 0; axis < 3; axis++ {
		if math.Abs(d[axis]) < epsilon {
			continue
		}
		for _, plane := range [2]float64{halfSide, -halfSide} {
			t := (plane - o[axis]) / d[axis]
			if t <= epsilon || t >= best {
				continue
			}
			u := o[(axis+1)%3] + t*d[(axis+1)%3]
			v := o[(axis+2)%3] + t*d[(axis+2)%3]
			if u >= -halfSide && u <= halfSide && v >= -halfSide && v <= halfSide {
				best = t
				found = true
			}
		}
	}

	return best, found
}

// NormalAt picks the face whose coordinate is closest to ±0.5
func (Cube) NormalAt(point mathpkg.Vec3) mathpkg.Vec3 {
	const faceEpsilon = 1e-4
	switch {
	case math.Abs(point.X-halfSide) < faceEpsilon:
		return mathpkg.NewVec3(1, 0, 0)
	case math.Abs(point.X+halfSide) < faceEpsilon:
		return mathpkg.NewVec3(-1, 0, 0)
	case math.Abs(point.Y-halfSide) < faceEpsilon:
		return mathpkg.NewVec3(0, 1, 0)
	case math.Abs(point.Y+halfSide) < faceEpsilon:
		return mathpkg.NewVec3(0, -1, 0)
	case math.Abs(point.Z-halfSide) < faceEpsilon:
		return mathpkg.NewVec3(0, 0, 1)
	default:
		return mathpkg.NewVec3(0, 0, -1)
	}
}

// UVAt projects the hit face onto the unit square
func (c Cube) UVAt(point mathpkg.Vec3) (float64, float64) {
	n := c.NormalAt(point)
	switch {
	case n.X > 0.5:
		return halfSide - point.Z, point.Y + halfSide
	case n.X < -0.5:
		return point.Z + halfSide, point.Y + halfSide
	case n.Y > 0.5:
		return point.X + halfSide, halfSide - point.Z
	case n.Y < -0.5:
		return point.X + halfSide, point.Z + halfSide
	case n.Z > 0.5:
		return point.X + halfSide, point.Y + halfSide
	default:
		return halfSide - point.X, point.Y + halfSide
	}
}
