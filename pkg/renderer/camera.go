package renderer

import (
	stdmath "math"

	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
	"github.com/natepfeffer/go-scene-raytracer/pkg/scene"
)

// Camera maintains an eye point and orthonormal basis {n, u, v} (back,
// right, up) through a pair of matrices: world-to-camera and its exact
// inverse camera-to-world. The eye point and basis vectors are always read
// back out of the camera-to-world matrix, never cached separately, so they
// stay consistent through any sequence of transform mutations.
type Camera struct {
	viewAngle float64 // vertical view angle, degrees
	aspect    float64 // width / height
	near, far float64

	// cumulative slider angles for SetRotUVW, degrees
	rotU, rotV, rotW float64

	worldToCamera mathpkg.Mat4
	cameraToWorld mathpkg.Mat4
}

// degenerate thresholds for orientation input vectors
const nearZero = 1e-10

// NewCamera creates a camera at (0,0,2) looking down -Z with a 60 degree
// view angle and unit aspect
func NewCamera() *Camera {
	c := &Camera{
		viewAngle:     60,
		aspect:        1,
		near:          0.1,
		far:           50,
		worldToCamera: mathpkg.Identity(),
		cameraToWorld: mathpkg.Identity(),
	}
	c.OrientLookVec(mathpkg.NewVec3(0, 0, 2), mathpkg.NewVec3(0, 0, -1), mathpkg.NewVec3(0, 1, 0))
	return c
}

// OrientLookAt recomputes the basis from an eye point, a focus point to
// look at, and an up vector
func (c *Camera) OrientLookAt(eye, focusPoint, up mathpkg.Vec3) {
	c.OrientLookVec(eye, focusPoint.Subtract(eye), up)
}

// OrientLookVec recomputes the full basis from scratch: n is the negated
// normalized look vector, u = normalize(look × up), v = n × u. Near-zero
// look or up vectors (including up parallel to look) are silently ignored
// and leave the camera unchanged.
func (c *Camera) OrientLookVec(eye, look, up mathpkg.Vec3) {
	if look.LengthSquared() < nearZero || up.LengthSquared() < nearZero {
		return
	}
	u := look.Cross(up)
	if u.LengthSquared() < nearZero {
		return
	}
	u = u.Normalize()
	n := look.Normalize().Negate()
	v := n.Cross(u)

	orientation := mathpkg.Mat4{
		{u.X, u.Y, u.Z, 0},
		{v.X, v.Y, v.Z, 0},
		{n.X, n.Y, n.Z, 0},
		{0, 0, 0, 1},
	}

	c.worldToCamera = orientation.Mul(mathpkg.Translation(eye.Negate()))
	c.cameraToWorld = mathpkg.Translation(eye).Mul(orientation.Transpose())
}

// Translate moves the camera incrementally: camera-to-world is
// right-multiplied by Translate(v) and world-to-camera left-multiplied by
// Translate(-v), with no recompute
func (c *Camera) Translate(v mathpkg.Vec3) {
	c.cameraToWorld = c.cameraToWorld.Mul(mathpkg.Translation(v))
	c.worldToCamera = mathpkg.Translation(v.Negate()).Mul(c.worldToCamera)
}

// Rotate spins the camera about an arbitrary pivot point and axis by an
// angle in degrees. World-to-camera is re-derived as the exact matrix
// inverse afterwards, which keeps the matrix pair from drifting apart over
// long interaction sequences.
func (c *Camera) Rotate(pivotPoint, axis mathpkg.Vec3, angleDegrees float64) {
	rotation := mathpkg.Translation(pivotPoint).
		Mul(mathpkg.RotationAxis(axis, angleDegrees*stdmath.Pi/180)).
		Mul(mathpkg.Translation(pivotPoint.Negate()))

	c.cameraToWorld = rotation.Mul(c.cameraToWorld)
	c.worldToCamera = c.cameraToWorld.Inverse()
}

// SetRotUVW drives the three rotation sliders. Each call computes deltas
// against the last-set absolute angles and applies three pivot rotations
// about the current eye point, in the fixed order U (about look×up), then
// V (about up), then W (about look). The axes are re-read from the matrix
// between steps, so the sliders are stateful and order-dependent.
func (c *Camera) SetRotUVW(u, v, w float64) {
	if du := u - c.rotU; du != 0 {
		c.Rotate(c.Eye(), c.Look().Cross(c.Up()), du)
	}
	if dv := v - c.rotV; dv != 0 {
		c.Rotate(c.Eye(), c.Up(), dv)
	}
	if dw := w - c.rotW; dw != 0 {
		c.Rotate(c.Eye(), c.Look(), dw)
	}
	c.rotU, c.rotV, c.rotW = u, v, w
}

// Reset orients the camera to a scene's declared viewpoint and clears the
// slider state
func (c *Camera) Reset(spec scene.CameraSpec) {
	if spec.HeightAngle > 0 {
		c.viewAngle = spec.HeightAngle
	}
	c.rotU, c.rotV, c.rotW = 0, 0, 0
	if spec.UseFocus {
		c.OrientLookAt(spec.Eye, spec.Focus, spec.Up)
	} else {
		c.OrientLookVec(spec.Eye, spec.Look, spec.Up)
	}
}

// SetViewAngle sets the vertical view angle in degrees
func (c *Camera) SetViewAngle(degrees float64) {
	c.viewAngle = degrees
}

// SetAspect sets the width/height aspect ratio
func (c *Camera) SetAspect(aspect float64) {
	c.aspect = aspect
}

// SetClip sets the near and far plane distances
func (c *Camera) SetClip(near, far float64) {
	c.near = near
	c.far = far
}

// ScaleMatrix encodes the perspective scale derived from the view angle
// and aspect ratio into the far-plane-normalized depth range. Together
// with UnhingeMatrix this is the canonical-view-volume construction, kept
// in that form rather than rewritten as a tan(fov/2) projection.
func (c *Camera) ScaleMatrix() mathpkg.Mat4 {
	tanH := stdmath.Tan(c.viewAngle * stdmath.Pi / 360)
	tanW := c.aspect * tanH
	return mathpkg.Scaling(
		1/(c.far*tanW),
		1/(c.far*tanH),
		1/c.far,
	)
}

// UnhingeMatrix performs the perspective divide via the near and far
// plane distances
func (c *Camera) UnhingeMatrix() mathpkg.Mat4 {
	hinge := -c.near / c.far
	return mathpkg.Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, -1 / (hinge + 1), hinge / (hinge + 1)},
		{0, 0, -1, 0},
	}
}

// ProjectionMatrix is the unhinge matrix composed onto the scale matrix
func (c *Camera) ProjectionMatrix() mathpkg.Mat4 {
	return c.UnhingeMatrix().Mul(c.ScaleMatrix())
}

// FilmToWorld returns the inverse of (ScaleMatrix · WorldToCamera), the
// matrix the evaluator uses to map film-plane points back into world space
func (c *Camera) FilmToWorld() mathpkg.Mat4 {
	return c.ScaleMatrix().Mul(c.worldToCamera).Inverse()
}

// WorldToCamera returns the view matrix
func (c *Camera) WorldToCamera() mathpkg.Mat4 {
	return c.worldToCamera
}

// CameraToWorld returns the inverse view matrix
func (c *Camera) CameraToWorld() mathpkg.Mat4 {
	return c.cameraToWorld
}

// Eye reads the eye point from the camera-to-world translation column
func (c *Camera) Eye() mathpkg.Vec3 {
	return mathpkg.NewVec3(c.cameraToWorld[0][3], c.cameraToWorld[1][3], c.cameraToWorld[2][3])
}

// Look reads the look vector from the camera-to-world basis columns: the
// negated n column
func (c *Camera) Look() mathpkg.Vec3 {
	return mathpkg.NewVec3(-c.cameraToWorld[0][2], -c.cameraToWorld[1][2], -c.cameraToWorld[2][2])
}

// Up reads the up vector from the camera-to-world v column
func (c *Camera) Up() mathpkg.Vec3 {
	return mathpkg.NewVec3(c.cameraToWorld[0][1], c.cameraToWorld[1][1], c.cameraToWorld[2][1])
}

// ViewAngle returns the vertical view angle in degrees
func (c *Camera) ViewAngle() float64 {
	return c.viewAngle
}

// Near returns the near plane distance
func (c *Camera) Near() float64 {
	return c.near
}

// Far returns the far plane distance
func (c *Camera) Far() float64 {
	return c.far
}
