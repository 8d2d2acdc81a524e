package renderer

import (
	"image"
	"image/color"
	stdmath "math"

	"github.com/natepfeffer/go-scene-raytracer/pkg/geometry"
	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
	"github.com/natepfeffer/go-scene-raytracer/pkg/scene"
)

// Logger is the minimal logging surface the renderer needs
type Logger interface {
	Printf(format string, args ...interface{})
}

// TextureSampler supplies decoded texture colors by table index. Sampling
// must be safe for concurrent use; the evaluator calls it from every
// worker.
type TextureSampler interface {
	// Sample returns the color at (u, v) of the texture at the given
	// table index; coordinates outside [0,1] wrap
	Sample(index int, u, v float64) mathpkg.Vec3
	// Has reports whether the index refers to a loaded texture
	Has(index int) bool
}

// objectView is one object record decoded for evaluation, with the
// inverse and inverse-transpose world matrices computed once per frame
type objectView struct {
	record   scene.ObjectRecord
	shape    geometry.Shape // nil for meshes, which are never hit
	invWorld mathpkg.Mat4
	normal   mathpkg.Mat4 // transpose of the inverse, for normals
}

// FrameInputs is the immutable per-frame snapshot the evaluator consumes:
// decoded object views, the texture set, at most MaxLights lights, global
// coefficients, and the camera-derived eye point and film matrix. A frame
// observes exactly one snapshot; scene reloads build a fresh one.
type FrameInputs struct {
	objects     []objectView
	textures    TextureSampler
	lights      []scene.Light
	globals     scene.Globals
	eye         mathpkg.Vec3
	filmToWorld mathpkg.Mat4

	// MaxDepth is the maximum recursion depth handed through from the
	// scene inputs; the local illumination model does not consume it
	MaxDepth int
}

// NewFrameInputs decodes the packed buffer and snapshots everything one
// frame needs. Lights beyond MaxLights are dropped in declaration order.
func NewFrameInputs(buffer *scene.Buffer, textures TextureSampler, lights []scene.Light,
	globals scene.Globals, camera *Camera, maxDepth int) *FrameInputs {

	objects := make([]objectView, 0, buffer.Count)
	for i := 0; i < buffer.Count; i++ {
		record := buffer.DecodeRecord(i)
		inv := record.World.Inverse()
		objects = append(objects, objectView{
			record:   record,
			shape:    geometry.ForTag(record.Shape),
			invWorld: inv,
			normal:   inv.Transpose(),
		})
	}

	if len(lights) > scene.MaxLights {
		lights = lights[:scene.MaxLights]
	}

	return &FrameInputs{
		objects:     objects,
		textures:    textures,
		lights:      lights,
		globals:     globals,
		eye:         camera.Eye(),
		filmToWorld: camera.FilmToWorld(),
		MaxDepth:    maxDepth,
	}
}

// ObjectCount returns the number of flattened objects in the snapshot
func (f *FrameInputs) ObjectCount() int {
	return len(f.objects)
}

// LightCount returns the number of lights the evaluator will consume
func (f *FrameInputs) LightCount() int {
	return len(f.lights)
}

// Raytracer evaluates one color per pixel from a frame snapshot. Pixels
// are fully independent: PixelColor has no shared mutable state, so any
// partition of the grid may be evaluated concurrently.
type Raytracer struct {
	frame  *FrameInputs
	width  int
	height int
}

// NewRaytracer creates an evaluator for one frame at the given resolution
func NewRaytracer(frame *FrameInputs, width, height int) *Raytracer {
	return &Raytracer{frame: frame, width: width, height: height}
}

// PixelColor computes the color for pixel (x, y). The pixel center maps
// to normalized device coordinates in [-1,1]²; the film-plane point
// (ndc.x, ndc.y, -1, 1) transformed by the inverse of
// (projectionScale · worldToCamera) gives a world-space point, and the ray
// runs from the eye through it. A miss is the black background. No [0,1]
// clamping is applied here.
func (rt *Raytracer) PixelColor(x, y int) mathpkg.Vec3 {
	ndcX := 2*(float64(x)+0.5)/float64(rt.width) - 1
	ndcY := 1 - 2*(float64(y)+0.5)/float64(rt.height)

	filmPoint := rt.frame.filmToWorld.MulPoint(mathpkg.NewVec3(ndcX, ndcY, -1))
	ray := mathpkg.NewRay(rt.frame.eye, filmPoint.Subtract(rt.frame.eye).Normalize())

	return rt.trace(ray)
}

// trace runs the nearest-hit search and shades the closest intersection
func (rt *Raytracer) trace(ray mathpkg.Ray) mathpkg.Vec3 {
	closestT := stdmath.Inf(1)
	closestIndex := -1

	for i := range rt.frame.objects {
		object := &rt.frame.objects[i]
		if object.shape == nil {
			continue
		}
		objectRay := ray.Transform(object.invWorld)
		// strictly smaller wins: ties resolve to the first-seen object
		if t, ok := object.shape.Intersect(objectRay); ok && t < closestT {
			closestT = t
			closestIndex = i
		}
	}

	if closestIndex < 0 {
		return mathpkg.Vec3{}
	}
	return rt.shade(ray, closestT, &rt.frame.objects[closestIndex])
}

// shade applies the local illumination model at the hit point:
// ambient, plus a diffuse and specular contribution per light
func (rt *Raytracer) shade(ray mathpkg.Ray, t float64, object *objectView) mathpkg.Vec3 {
	worldPoint := ray.At(t)
	objectPoint := ray.Transform(object.invWorld).At(t)

	// object-space normal to world space via the transpose of the
	// inverse world matrix, correct under non-uniform scale
	normal := object.normal.MulDirection(object.shape.NormalAt(objectPoint)).Normalize()

	globals := rt.frame.globals
	record := &object.record

	diffuseColor := record.Diffuse
	if record.TextureUsed && rt.frame.textures != nil && rt.frame.textures.Has(record.TextureIndex) {
		u, v := object.shape.UVAt(objectPoint)
		texel := rt.frame.textures.Sample(record.TextureIndex, u*record.RepeatU, v*record.RepeatV)
		diffuseColor = diffuseColor.MultiplyVec(texel)
	}

	result := record.Ambient.Multiply(globals.KA)
	toEye := rt.frame.eye.Subtract(worldPoint).Normalize()

	for i := range rt.frame.lights {
		light := &rt.frame.lights[i]

		var toLight mathpkg.Vec3
		switch light.Type {
		case scene.LightDirectional, scene.LightArea:
			toLight = light.Direction.Negate().Normalize()
		default: // point and spot lights shade from their position
			toLight = light.Position.Subtract(worldPoint).Normalize()
		}

		if nDotL := normal.Dot(toLight); nDotL > 0 {
			result = result.Add(light.Color.MultiplyVec(diffuseColor.Multiply(globals.KD * nDotL)))
		}

		reflected := toLight.Reflect(normal)
		if rDotV := reflected.Dot(toEye); rDotV > 0 {
			highlight := globals.KS * stdmath.Pow(rDotV, record.Shininess)
			result = result.Add(light.Color.MultiplyVec(record.Specular.Multiply(highlight)))
		}
	}

	return result
}

// RenderRows evaluates the pixel rows [yStart, yEnd) into img. Rows are
// disjoint between calls, so concurrent workers may share img.
func (rt *Raytracer) RenderRows(img *image.RGBA, yStart, yEnd int) {
	for y := yStart; y < yEnd; y++ {
		for x := 0; x < rt.width; x++ {
			img.SetRGBA(x, y, vec3ToColor(rt.PixelColor(x, y)))
		}
	}
}

// Render evaluates the whole grid single-threaded and returns the image
func (rt *Raytracer) Render() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	rt.RenderRows(img, 0, rt.height)
	return img
}

// vec3ToColor converts an unclamped shading result to RGBA for display,
// clamping only at this presentation boundary
func vec3ToColor(colorVec mathpkg.Vec3) color.RGBA {
	colorVec = colorVec.Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
