package loaders

import (
	"strings"
	"testing"

	"github.com/natepfeffer/go-scene-raytracer/pkg/geometry"
	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
	"github.com/natepfeffer/go-scene-raytracer/pkg/scene"
)

const exampleScene = `
maxdepth = 6

[globals]
ka = 0.5
kd = 0.8

[camera]
eye = [0.0, 1.0, 5.0]
focus = [0.0, 0.0, 0.0]
up = [0.0, 1.0, 0.0]
heightangle = 45.0

[[lights]]
type = "point"
color = [1.0, 1.0, 1.0]
position = [2.0, 4.0, 3.0]
attenuation = [1.0, 0.1, 0.0]

[[lights]]
type = "directional"
color = [0.3, 0.3, 0.3]
direction = [0.0, -1.0, 0.0]

[masters.column]
  [[masters.column.primitive]]
  shape = "cylinder"
    [masters.column.primitive.material]
    diffuse = [0.8, 0.8, 0.7]
    [masters.column.primitive.material.texture]
    file = "marble.png"
    repeatu = 2.0

[tree]
  [[tree.node]]
    [[tree.node.transform]]
    type = "scale"
    value = [10.0, 0.2, 10.0]
    [[tree.node.primitive]]
    shape = "cube"
      [tree.node.primitive.material]
      diffuse = [0.5, 0.5, 0.5]

  [[tree.node]]
  master = "column"
    [[tree.node.transform]]
    type = "translate"
    value = [-3.0, 0.0, 0.0]

  [[tree.node]]
  master = "column"
    [[tree.node.transform]]
    type = "translate"
    value = [3.0, 0.0, 0.0]

  [[tree.node]]
    [[tree.node.transform]]
    type = "rotate"
    axis = [0.0, 1.0, 0.0]
    angle = 45.0
    [[tree.node.transform]]
    type = "translate"
    value = [0.0, 1.0, 0.0]
    [[tree.node.primitive]]
    shape = "sphere"
      [tree.node.primitive.material]
      diffuse = [1.0, 0.0, 0.0]
      shininess = 25.0
`

func TestParseScene(t *testing.T) {
	sc, maxDepth, err := ParseScene([]byte(exampleScene))
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}

	if maxDepth != 6 {
		t.Errorf("Expected maxdepth 6, got %d", maxDepth)
	}
	if sc.Globals.KA != 0.5 || sc.Globals.KD != 0.8 {
		t.Errorf("Globals not applied: %+v", sc.Globals)
	}
	if !sc.Camera.UseFocus || !sc.Camera.Eye.ApproxEqual(mathpkg.NewVec3(0, 1, 5), 1e-9) {
		t.Errorf("Camera not parsed: %+v", sc.Camera)
	}
	if sc.Camera.HeightAngle != 45 {
		t.Errorf("Expected height angle 45, got %g", sc.Camera.HeightAngle)
	}

	if len(sc.Lights) != 2 {
		t.Fatalf("Expected 2 lights, got %d", len(sc.Lights))
	}
	if sc.Lights[0].Type != scene.LightPoint || sc.Lights[1].Type != scene.LightDirectional {
		t.Errorf("Light types wrong: %v, %v", sc.Lights[0].Type, sc.Lights[1].Type)
	}
	if !sc.Lights[0].Attenuation.ApproxEqual(mathpkg.NewVec3(1, 0.1, 0), 1e-9) {
		t.Errorf("Attenuation not parsed: %v", sc.Lights[0].Attenuation)
	}

	// floor + two column instances + one sphere
	buffer, filenames, err := scene.Flatten(sc.Root)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	if buffer.Count != 4 {
		t.Errorf("Expected 4 flattened objects, got %d", buffer.Count)
	}
	if len(filenames) != 1 || filenames[0] != "marble.png" {
		t.Errorf("Expected deduplicated texture table [marble.png], got %v", filenames)
	}

	// both instances share one master definition, placed at +-3
	first := buffer.DecodeRecord(1)
	second := buffer.DecodeRecord(2)
	if first.Shape != geometry.TagCylinder || second.Shape != geometry.TagCylinder {
		t.Errorf("Expected cylinder instances, got %v and %v", first.Shape, second.Shape)
	}
	if first.World[0][3] != -3 || second.World[0][3] != 3 {
		t.Errorf("Instance translations wrong: %g and %g", first.World[0][3], second.World[0][3])
	}
	if first.RepeatU != 2 || first.TextureIndex != 0 {
		t.Errorf("Texture map not carried through: %+v", first)
	}
}

func TestParseScene_InstancesShareSubtree(t *testing.T) {
	sc, _, err := ParseScene([]byte(exampleScene))
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}

	var masters []*scene.Node
	for _, child := range sc.Root.Children {
		if len(child.Children) == 1 && len(child.Primitives) == 0 {
			masters = append(masters, child.Children[0])
		}
	}
	if len(masters) != 2 || masters[0] != masters[1] {
		t.Error("Master instances should share one sub-tree node")
	}
}

func TestParseScene_Defaults(t *testing.T) {
	sc, maxDepth, err := ParseScene([]byte(`
[camera]
eye = [0.0, 0.0, 2.0]
look = [0.0, 0.0, -1.0]

[tree]
  [[tree.primitive]]
  shape = "sphere"
    [tree.primitive.material]
    diffuse = [1.0, 1.0, 1.0]
`))
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}
	if maxDepth != 4 {
		t.Errorf("Expected default maxdepth 4, got %d", maxDepth)
	}
	if sc.Camera.UseFocus {
		t.Error("look-vector camera should not use a focus point")
	}
	if !sc.Camera.Up.ApproxEqual(mathpkg.NewVec3(0, 1, 0), 1e-9) {
		t.Errorf("Expected default up (0,1,0), got %v", sc.Camera.Up)
	}
	defaults := scene.DefaultGlobals()
	if sc.Globals != defaults {
		t.Errorf("Expected default globals %+v, got %+v", defaults, sc.Globals)
	}

	buffer, _, err := scene.Flatten(sc.Root)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	record := buffer.DecodeRecord(0)
	if record.IOR != 1 {
		t.Errorf("Expected default IOR 1, got %g", record.IOR)
	}
}

func TestParseScene_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "unknown shape",
			content: `
[camera]
eye = [0.0, 0.0, 2.0]
look = [0.0, 0.0, -1.0]
[tree]
  [[tree.primitive]]
  shape = "torus"
`,
			wantErr: "unknown shape",
		},
		{
			name: "undefined master",
			content: `
[camera]
eye = [0.0, 0.0, 2.0]
look = [0.0, 0.0, -1.0]
[tree]
  [[tree.node]]
  master = "ghost"
`,
			wantErr: "undefined master",
		},
		{
			name: "missing camera target",
			content: `
[camera]
eye = [0.0, 0.0, 2.0]
[tree]
`,
			wantErr: "focus point or a look vector",
		},
		{
			name: "unknown light type",
			content: `
[camera]
eye = [0.0, 0.0, 2.0]
look = [0.0, 0.0, -1.0]
[[lights]]
type = "laser"
[tree]
`,
			wantErr: "unknown light type",
		},
		{
			name: "unknown transform type",
			content: `
[camera]
eye = [0.0, 0.0, 2.0]
look = [0.0, 0.0, -1.0]
[tree]
  [[tree.transform]]
  type = "shear"
`,
			wantErr: "unknown transform type",
		},
		{
			name: "short matrix",
			content: `
[camera]
eye = [0.0, 0.0, 2.0]
look = [0.0, 0.0, -1.0]
[tree]
  [[tree.transform]]
  type = "matrix"
  matrix = [1.0, 0.0]
`,
			wantErr: "16 values",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseScene([]byte(tt.content))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadSceneFile_MissingFile(t *testing.T) {
	if _, _, err := LoadSceneFile("does-not-exist.toml"); err == nil {
		t.Fatal("Expected an error for a missing scene file")
	}
}
