package renderer

import (
	"testing"

	"github.com/natepfeffer/go-scene-raytracer/pkg/geometry"
	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
	"github.com/natepfeffer/go-scene-raytracer/pkg/scene"
)

// solidSampler reports one constant color for every loaded index
type solidSampler struct {
	color mathpkg.Vec3
	count int
}

func (s *solidSampler) Sample(index int, u, v float64) mathpkg.Vec3 { return s.color }
func (s *solidSampler) Has(index int) bool                          { return index >= 0 && index < s.count }

func frameFor(t *testing.T, root *scene.Node, lights []scene.Light, globals scene.Globals, textures TextureSampler) *FrameInputs {
	t.Helper()
	buffer, _, err := scene.Flatten(root)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	return NewFrameInputs(buffer, textures, lights, globals, defaultTestCamera(), 4)
}

// centerPixel evaluates a 1x1 grid, whose single pixel center lands
// exactly on the optical axis
func centerPixel(frame *FrameInputs) mathpkg.Vec3 {
	return NewRaytracer(frame, 1, 1).PixelColor(0, 0)
}

func TestRaytracer_EmptySceneIsBlack(t *testing.T) {
	frame := frameFor(t, nil, nil, scene.DefaultGlobals(), nil)
	rt := NewRaytracer(frame, 4, 4)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := rt.PixelColor(x, y); got != (mathpkg.Vec3{}) {
				t.Fatalf("Expected background (0,0,0) at (%d,%d), got %v", x, y, got)
			}
		}
	}

	img := rt.Render()
	if c := img.RGBAAt(2, 2); c.R != 0 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("Expected opaque black pixel, got %v", c)
	}
}

func TestRaytracer_SphereAmbientPlusDiffuse(t *testing.T) {
	material := scene.Material{
		Ambient: mathpkg.NewVec3(0.2, 0.2, 0.2),
		Diffuse: mathpkg.NewVec3(0.25, 0.5, 0.75),
	}
	root := scene.NewNode().WithPrimitives(scene.Primitive{Shape: geometry.TagSphere, Material: material})
	lights := []scene.Light{scene.NewPointLight(mathpkg.NewVec3(0, 0, 5), mathpkg.NewVec3(1, 1, 1))}
	globals := scene.Globals{KA: 1, KD: 1, KS: 0}

	// the axis ray hits the sphere at (0,0,0.5) with normal (0,0,1);
	// the light sits on that normal, so N·L = 1 and the result is
	// exactly ambient + diffuse
	got := centerPixel(frameFor(t, root, lights, globals, nil))
	want := mathpkg.NewVec3(0.45, 0.7, 0.95)
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestRaytracer_DiffuseGatedByFacing(t *testing.T) {
	material := scene.Material{
		Ambient: mathpkg.NewVec3(0.2, 0.2, 0.2),
		Diffuse: mathpkg.NewVec3(1, 1, 1),
	}
	root := scene.NewNode().WithPrimitives(scene.Primitive{Shape: geometry.TagSphere, Material: material})
	// light grazes the hit point from directly above: N·L = 0
	lights := []scene.Light{scene.NewPointLight(mathpkg.NewVec3(0, 4, 0.5), mathpkg.NewVec3(1, 1, 1))}
	globals := scene.Globals{KA: 1, KD: 1, KS: 0}

	got := centerPixel(frameFor(t, root, lights, globals, nil))
	want := mathpkg.NewVec3(0.2, 0.2, 0.2)
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("Expected ambient only %v, got %v", want, got)
	}
}

func TestRaytracer_DirectionalLight(t *testing.T) {
	material := scene.Material{Diffuse: mathpkg.NewVec3(1, 1, 1)}
	root := scene.NewNode().WithPrimitives(scene.Primitive{Shape: geometry.TagSphere, Material: material})
	// shining down the -Z axis, so toLight is the +Z hit normal
	lights := []scene.Light{scene.NewDirectionalLight(mathpkg.NewVec3(0, 0, -1), mathpkg.NewVec3(0.5, 0.5, 0.5))}
	globals := scene.Globals{KA: 1, KD: 1, KS: 0}

	got := centerPixel(frameFor(t, root, lights, globals, nil))
	want := mathpkg.NewVec3(0.5, 0.5, 0.5)
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestRaytracer_SpecularHighlight(t *testing.T) {
	material := scene.Material{
		Specular:  mathpkg.NewVec3(0.3, 0.3, 0.3),
		Shininess: 10,
	}
	root := scene.NewNode().WithPrimitives(scene.Primitive{Shape: geometry.TagSphere, Material: material})
	// light, normal and eye are collinear: the reflection points straight
	// back at the eye and the highlight term is KS · 1^shininess
	lights := []scene.Light{scene.NewPointLight(mathpkg.NewVec3(0, 0, 5), mathpkg.NewVec3(1, 1, 1))}
	globals := scene.Globals{KA: 1, KD: 0, KS: 1}

	got := centerPixel(frameFor(t, root, lights, globals, nil))
	want := mathpkg.NewVec3(0.3, 0.3, 0.3)
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestRaytracer_TieBreakFirstSeen(t *testing.T) {
	red := scene.Material{Ambient: mathpkg.NewVec3(1, 0, 0)}
	green := scene.Material{Ambient: mathpkg.NewVec3(0, 1, 0)}
	root := scene.NewNode().WithPrimitives(
		scene.Primitive{Shape: geometry.TagSphere, Material: red},
		scene.Primitive{Shape: geometry.TagSphere, Material: green},
	)
	globals := scene.Globals{KA: 1}

	got := centerPixel(frameFor(t, root, nil, globals, nil))
	want := mathpkg.NewVec3(1, 0, 0)
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("Coincident surfaces should shade the first record, got %v", got)
	}
}

func TestRaytracer_MeshRecordsNeverHit(t *testing.T) {
	material := scene.Material{Ambient: mathpkg.NewVec3(1, 1, 1)}
	root := scene.NewNode().WithPrimitives(scene.Primitive{Shape: geometry.TagMesh, Material: material})
	globals := scene.Globals{KA: 1}

	if got := centerPixel(frameFor(t, root, nil, globals, nil)); got != (mathpkg.Vec3{}) {
		t.Errorf("Mesh records should pass through to the background, got %v", got)
	}
}

func TestRaytracer_TransformedSphere(t *testing.T) {
	material := scene.Material{Ambient: mathpkg.NewVec3(0.5, 0.5, 0.5)}
	// pushed off axis: the center ray no longer hits
	root := scene.NewNode().
		Transformed(scene.Translate(3, 0, 0)).
		WithPrimitives(scene.Primitive{Shape: geometry.TagSphere, Material: material})
	globals := scene.Globals{KA: 1}

	if got := centerPixel(frameFor(t, root, nil, globals, nil)); got != (mathpkg.Vec3{}) {
		t.Errorf("Expected background for off-axis sphere, got %v", got)
	}

	// scaled along the viewing axis: closer first intersection, still hit
	scaled := scene.NewNode().
		Transformed(scene.Scale(1, 1, 3)).
		WithPrimitives(scene.Primitive{Shape: geometry.TagSphere, Material: material})

	got := centerPixel(frameFor(t, scaled, nil, globals, nil))
	want := mathpkg.NewVec3(0.5, 0.5, 0.5)
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("Expected %v for scaled sphere, got %v", want, got)
	}
}

func TestRaytracer_TextureModulatesDiffuse(t *testing.T) {
	material := scene.Material{
		Diffuse: mathpkg.NewVec3(1, 1, 1),
		Texture: scene.NewTextureMap("red.png", 1, 1),
	}
	root := scene.NewNode().WithPrimitives(scene.Primitive{Shape: geometry.TagSphere, Material: material})
	lights := []scene.Light{scene.NewPointLight(mathpkg.NewVec3(0, 0, 5), mathpkg.NewVec3(1, 1, 1))}
	globals := scene.Globals{KA: 1, KD: 1, KS: 0}
	textures := &solidSampler{color: mathpkg.NewVec3(1, 0, 0), count: 1}

	got := centerPixel(frameFor(t, root, lights, globals, textures))
	want := mathpkg.NewVec3(1, 0, 0)
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("Expected texture-modulated diffuse %v, got %v", want, got)
	}

	// the same scene without a sampler falls back to the plain diffuse
	got = centerPixel(frameFor(t, root, lights, globals, nil))
	want = mathpkg.NewVec3(1, 1, 1)
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("Expected untextured diffuse %v, got %v", want, got)
	}
}

func TestRaytracer_NoClampingBeforePresentation(t *testing.T) {
	material := scene.Material{Ambient: mathpkg.NewVec3(2, 2, 2)}
	root := scene.NewNode().WithPrimitives(scene.Primitive{Shape: geometry.TagSphere, Material: material})
	globals := scene.Globals{KA: 1}

	frame := frameFor(t, root, nil, globals, nil)
	got := centerPixel(frame)
	if !got.ApproxEqual(mathpkg.NewVec3(2, 2, 2), 1e-9) {
		t.Errorf("PixelColor should not clamp, got %v", got)
	}

	img := NewRaytracer(frame, 1, 1).Render()
	if c := img.RGBAAt(0, 0); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("Presentation should clamp to white, got %v", c)
	}
}

func TestNewFrameInputs_TruncatesLights(t *testing.T) {
	lights := make([]scene.Light, scene.MaxLights+4)
	for i := range lights {
		lights[i] = scene.NewPointLight(mathpkg.NewVec3(float64(i), 5, 0), mathpkg.NewVec3(1, 1, 1))
	}
	frame := frameFor(t, scene.NewNode(), lights, scene.DefaultGlobals(), nil)

	if frame.LightCount() != scene.MaxLights {
		t.Errorf("Expected %d lights after truncation, got %d", scene.MaxLights, frame.LightCount())
	}
}

func TestWorkerPool_MatchesSingleThreaded(t *testing.T) {
	sc := scene.NewDefaultScene()
	buffer, _, err := scene.Flatten(sc.Root)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	camera := NewCamera()
	camera.Reset(sc.Camera)
	frame := NewFrameInputs(buffer, nil, sc.Lights, sc.Globals, camera, 4)

	rt := NewRaytracer(frame, 32, 32)
	sequential := rt.Render()
	parallel := NewWorkerPool(4).Render(rt)

	if len(sequential.Pix) != len(parallel.Pix) {
		t.Fatalf("image sizes differ: %d vs %d", len(sequential.Pix), len(parallel.Pix))
	}
	for i := range sequential.Pix {
		if sequential.Pix[i] != parallel.Pix[i] {
			t.Fatalf("pixel data diverges at byte %d", i)
		}
	}
}
