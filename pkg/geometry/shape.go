package geometry

import (
	"math"

	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
)

// Tag identifies a primitive shape in the packed object buffer. The numeric
// values are part of the buffer wire contract shared between the flattener
// and the evaluator.
type Tag int

const (
	TagCube Tag = iota
	TagCylinder
	TagCone
	TagSphere
	TagMesh
)

// String returns the shape name for logging
func (t Tag) String() string {
	switch t {
	case TagCube:
		return "cube"
	case TagCylinder:
		return "cylinder"
	case TagCone:
		return "cone"
	case TagSphere:
		return "sphere"
	case TagMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// Valid reports whether the tag names a known shape
func (t Tag) Valid() bool {
	return t >= TagCube && t <= TagMesh
}

// Shape is an implicit unit-sized primitive centered at the local origin.
// All methods operate in the shape's object space; the caller transforms
// rays in and normals out.
type Shape interface {
	// Intersect returns the smallest positive ray parameter at which the
	// ray hits the shape, or false if it misses
	Intersect(ray mathpkg.Ray) (float64, bool)
	// NormalAt returns the outward unit normal at a surface point
	NormalAt(point mathpkg.Vec3) mathpkg.Vec3
	// UVAt returns texture coordinates in [0,1]² at a surface point
	UVAt(point mathpkg.Vec3) (float64, float64)
}

// ForTag returns the shape implementation for a buffer tag, or nil for
// tags without analytic geometry (meshes are out of scope and never hit).
func ForTag(tag Tag) Shape {
	switch tag {
	case TagCube:
		return Cube{}
	case TagCylinder:
		return Cylinder{}
	case TagCone:
		return Cone{}
	case TagSphere:
		return Sphere{}
	default:
		return nil
	}
}

// epsilon guards near-zero denominators and degenerate quadratics so that
// grazing rays resolve to "no hit" instead of propagating Inf/NaN into the
// nearest-hit comparison
const epsilon = 1e-8

// quadraticRoots returns the real roots of at² + bt + c = 0 in ascending
// order. A degenerate quadratic (a ≈ 0) falls back to the linear solution;
// a negative discriminant reports no roots.
func quadraticRoots(a, b, c float64) (t0, t1 float64, ok bool) {
	if math.Abs(a) < epsilon {
		if math.Abs(b) < epsilon {
			return 0, 0, false
		}
		t := -c / b
		return t, t, true
	}

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	t0 = (-b - sqrtD) / (2 * a)
	t1 = (-b + sqrtD) / (2 * a)
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return t0, t1, true
}
