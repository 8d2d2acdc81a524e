package scene

import (
	"fmt"

	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
)

// TransformKind discriminates the Transformation variants
type TransformKind int

const (
	TransformTranslate TransformKind = iota
	TransformScale
	TransformRotate
	TransformMatrix
)

// Transformation is one step in a node's transformation sequence. Values
// are immutable once constructed; build them with the constructor matching
// the kind.
type Transformation struct {
	Kind    TransformKind
	Offset  mathpkg.Vec3 // Translate
	Factors mathpkg.Vec3 // Scale
	Axis    mathpkg.Vec3 // Rotate
	Angle   float64      // Rotate, radians
	Custom  mathpkg.Mat4 // Matrix
}

// Translate builds a translation by (x, y, z)
func Translate(x, y, z float64) Transformation {
	return Transformation{Kind: TransformTranslate, Offset: mathpkg.NewVec3(x, y, z)}
}

// Scale builds a scale by (x, y, z)
func Scale(x, y, z float64) Transformation {
	return Transformation{Kind: TransformScale, Factors: mathpkg.NewVec3(x, y, z)}
}

// Rotate builds a rotation about the given axis by an angle in radians
func Rotate(axis mathpkg.Vec3, angleRadians float64) Transformation {
	return Transformation{Kind: TransformRotate, Axis: axis, Angle: angleRadians}
}

// Matrix builds a transformation from an explicit row-major 4x4 matrix
func Matrix(m mathpkg.Mat4) Transformation {
	return Transformation{Kind: TransformMatrix, Custom: m}
}

// matrix returns the 4x4 matrix for this transformation. A rotation about
// a zero-length axis is a no-op. An unrecognized kind is a structural
// scene error.
func (t Transformation) matrix() (mathpkg.Mat4, error) {
	switch t.Kind {
	case TransformTranslate:
		return mathpkg.Translation(t.Offset), nil
	case TransformScale:
		return mathpkg.Scaling(t.Factors.X, t.Factors.Y, t.Factors.Z), nil
	case TransformRotate:
		return mathpkg.RotationAxis(t.Axis, t.Angle), nil
	case TransformMatrix:
		return t.Custom, nil
	default:
		return mathpkg.Identity(), fmt.Errorf("malformed transformation kind %d", t.Kind)
	}
}
