package math

// Ray represents a ray with an origin and direction
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Transform maps the ray through the given matrix, transforming the origin
// as a point and the direction as a direction. The direction is NOT
// re-normalized: preserving its length keeps the ray parameter t comparable
// between world space and object space.
func (r Ray) Transform(m Mat4) Ray {
	return Ray{
		Origin:    m.MulPoint(r.Origin),
		Direction: m.MulDirection(r.Direction),
	}
}
