package loaders

import (
	"fmt"
	stdmath "math"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/natepfeffer/go-scene-raytracer/pkg/geometry"
	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
	"github.com/natepfeffer/go-scene-raytracer/pkg/scene"
)

// sceneFile mirrors the TOML scene description. Masters are named
// sub-trees; a node that names a master shares that sub-tree rather than
// copying it, so repeated instances flatten from one definition.
type sceneFile struct {
	MaxDepth int                  `toml:"maxdepth"`
	Globals  globalsFile          `toml:"globals"`
	Camera   cameraFile           `toml:"camera"`
	Lights   []lightFile          `toml:"lights"`
	Masters  map[string]*nodeFile `toml:"masters"`
	Tree     nodeFile             `toml:"tree"`
}

type globalsFile struct {
	KA *float64 `toml:"ka"`
	KD *float64 `toml:"kd"`
	KS *float64 `toml:"ks"`
	KT *float64 `toml:"kt"`
}

type cameraFile struct {
	Eye         [3]float64  `toml:"eye"`
	Up          [3]float64  `toml:"up"`
	Focus       *[3]float64 `toml:"focus"`
	Look        *[3]float64 `toml:"look"`
	HeightAngle float64     `toml:"heightangle"`
}

type lightFile struct {
	Type        string      `toml:"type"`
	Color       [3]float64  `toml:"color"`
	Position    [3]float64  `toml:"position"`
	Direction   [3]float64  `toml:"direction"`
	Attenuation *[3]float64 `toml:"attenuation"`
	Angle       float64     `toml:"angle"`
	Penumbra    float64     `toml:"penumbra"`
	Radius      float64     `toml:"radius"`
	Width       float64     `toml:"width"`
	Height      float64     `toml:"height"`
}

type nodeFile struct {
	Master     string          `toml:"master"`
	Transforms []transformFile `toml:"transform"`
	Primitives []primitiveFile `toml:"primitive"`
	Nodes      []*nodeFile     `toml:"node"`
}

type transformFile struct {
	Type   string     `toml:"type"`
	Value  [3]float64 `toml:"value"`
	Axis   [3]float64 `toml:"axis"`
	Angle  float64    `toml:"angle"` // degrees
	Matrix []float64  `toml:"matrix"`
}

type primitiveFile struct {
	Shape    string       `toml:"shape"`
	Material materialFile `toml:"material"`
}

type materialFile struct {
	Ambient     [3]float64   `toml:"ambient"`
	Diffuse     [3]float64   `toml:"diffuse"`
	Specular    [3]float64   `toml:"specular"`
	Reflective  [3]float64   `toml:"reflective"`
	Transparent [3]float64   `toml:"transparent"`
	Emissive    [3]float64   `toml:"emissive"`
	Shininess   float64      `toml:"shininess"`
	IOR         *float64     `toml:"ior"`
	Texture     *textureFile `toml:"texture"`
	Bump        *textureFile `toml:"bump"`
}

type textureFile struct {
	File    string   `toml:"file"`
	RepeatU *float64 `toml:"repeatu"`
	RepeatV *float64 `toml:"repeatv"`
}

// LoadSceneFile parses a TOML scene description into a scene graph
func LoadSceneFile(path string) (*scene.Scene, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading scene file: %w", err)
	}
	return ParseScene(data)
}

// ParseScene parses TOML scene bytes into a scene graph and the
// requested maximum recursion depth
func ParseScene(data []byte) (*scene.Scene, int, error) {
	var file sceneFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, 0, fmt.Errorf("parsing scene file: %w", err)
	}

	loader := &sceneLoader{masters: make(map[string]*scene.Node)}
	for name, master := range file.Masters {
		if master == nil {
			return nil, 0, fmt.Errorf("master %q is empty", name)
		}
	}
	// resolve masters up front so instance references can share them; a
	// master may reference earlier masters through resolveNode
	loader.masterFiles = file.Masters
	root, err := loader.resolveNode(&file.Tree)
	if err != nil {
		return nil, 0, err
	}

	globals := scene.DefaultGlobals()
	applyCoefficient(&globals.KA, file.Globals.KA)
	applyCoefficient(&globals.KD, file.Globals.KD)
	applyCoefficient(&globals.KS, file.Globals.KS)
	applyCoefficient(&globals.KT, file.Globals.KT)

	camera, err := buildCamera(file.Camera)
	if err != nil {
		return nil, 0, err
	}

	lights := make([]scene.Light, 0, len(file.Lights))
	for i, lf := range file.Lights {
		light, err := buildLight(lf)
		if err != nil {
			return nil, 0, fmt.Errorf("light %d: %w", i, err)
		}
		lights = append(lights, light)
	}

	maxDepth := file.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 4
	}

	return &scene.Scene{
		Root:    root,
		Globals: globals,
		Camera:  camera,
		Lights:  lights,
	}, maxDepth, nil
}

type sceneLoader struct {
	masterFiles map[string]*nodeFile
	masters     map[string]*scene.Node
	resolving   map[string]bool
}

// resolveMaster builds the named master sub-tree once and shares the
// result across every instance reference
func (l *sceneLoader) resolveMaster(name string) (*scene.Node, error) {
	if node, ok := l.masters[name]; ok {
		return node, nil
	}
	file, ok := l.masterFiles[name]
	if !ok {
		return nil, fmt.Errorf("reference to undefined master %q", name)
	}
	if l.resolving == nil {
		l.resolving = make(map[string]bool)
	}
	if l.resolving[name] {
		return nil, fmt.Errorf("master %q references itself", name)
	}
	l.resolving[name] = true
	defer delete(l.resolving, name)

	node, err := l.resolveNode(file)
	if err != nil {
		return nil, fmt.Errorf("master %q: %w", name, err)
	}
	l.masters[name] = node
	return node, nil
}

func (l *sceneLoader) resolveNode(file *nodeFile) (*scene.Node, error) {
	node := scene.NewNode()

	for _, tf := range file.Transforms {
		transformation, err := buildTransformation(tf)
		if err != nil {
			return nil, err
		}
		node.Transformations = append(node.Transformations, transformation)
	}

	for _, pf := range file.Primitives {
		primitive, err := buildPrimitive(pf)
		if err != nil {
			return nil, err
		}
		node.Primitives = append(node.Primitives, primitive)
	}

	for _, child := range file.Nodes {
		if child.Master != "" {
			master, err := l.resolveMaster(child.Master)
			if err != nil {
				return nil, err
			}
			// an instance node carries its own transforms and parents
			// the shared master sub-tree
			instance, err := l.resolveNode(&nodeFile{
				Transforms: child.Transforms,
				Primitives: child.Primitives,
			})
			if err != nil {
				return nil, err
			}
			instance.Children = append(instance.Children, master)
			node.Children = append(node.Children, instance)
			continue
		}
		resolved, err := l.resolveNode(child)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, resolved)
	}

	return node, nil
}

func buildTransformation(file transformFile) (scene.Transformation, error) {
	switch file.Type {
	case "translate":
		return scene.Translate(file.Value[0], file.Value[1], file.Value[2]), nil
	case "scale":
		return scene.Scale(file.Value[0], file.Value[1], file.Value[2]), nil
	case "rotate":
		axis := mathpkg.NewVec3(file.Axis[0], file.Axis[1], file.Axis[2])
		return scene.Rotate(axis, file.Angle*stdmath.Pi/180), nil
	case "matrix":
		if len(file.Matrix) != 16 {
			return scene.Transformation{}, fmt.Errorf("matrix transform needs 16 values, got %d", len(file.Matrix))
		}
		return scene.Matrix(mathpkg.Mat4FromSlice(file.Matrix)), nil
	default:
		return scene.Transformation{}, fmt.Errorf("unknown transform type %q", file.Type)
	}
}

func buildPrimitive(file primitiveFile) (scene.Primitive, error) {
	tag, err := shapeTag(file.Shape)
	if err != nil {
		return scene.Primitive{}, err
	}
	return scene.Primitive{Shape: tag, Material: buildMaterial(file.Material)}, nil
}

func shapeTag(name string) (geometry.Tag, error) {
	switch name {
	case "cube":
		return geometry.TagCube, nil
	case "cylinder":
		return geometry.TagCylinder, nil
	case "cone":
		return geometry.TagCone, nil
	case "sphere":
		return geometry.TagSphere, nil
	case "mesh":
		return geometry.TagMesh, nil
	default:
		return 0, fmt.Errorf("unknown shape %q", name)
	}
}

func buildMaterial(file materialFile) scene.Material {
	material := scene.Material{
		Ambient:     vec3Of(file.Ambient),
		Diffuse:     vec3Of(file.Diffuse),
		Specular:    vec3Of(file.Specular),
		Reflective:  vec3Of(file.Reflective),
		Transparent: vec3Of(file.Transparent),
		Emissive:    vec3Of(file.Emissive),
		Shininess:   file.Shininess,
		IOR:         1,
	}
	if file.IOR != nil {
		material.IOR = *file.IOR
	}
	if file.Texture != nil && file.Texture.File != "" {
		material.Texture = scene.NewTextureMap(file.Texture.File,
			repeatOf(file.Texture.RepeatU), repeatOf(file.Texture.RepeatV))
	}
	if file.Bump != nil && file.Bump.File != "" {
		material.Bump = scene.NewTextureMap(file.Bump.File,
			repeatOf(file.Bump.RepeatU), repeatOf(file.Bump.RepeatV))
	}
	return material
}

func buildCamera(file cameraFile) (scene.CameraSpec, error) {
	spec := scene.CameraSpec{
		Eye:         vec3Of(file.Eye),
		Up:          vec3Of(file.Up),
		HeightAngle: file.HeightAngle,
	}
	if spec.Up == (mathpkg.Vec3{}) {
		spec.Up = mathpkg.NewVec3(0, 1, 0)
	}
	switch {
	case file.Focus != nil:
		spec.Focus = vec3Of(*file.Focus)
		spec.UseFocus = true
	case file.Look != nil:
		spec.Look = vec3Of(*file.Look)
	default:
		return scene.CameraSpec{}, fmt.Errorf("camera needs a focus point or a look vector")
	}
	return spec, nil
}

func buildLight(file lightFile) (scene.Light, error) {
	light := scene.Light{
		Color:       vec3Of(file.Color),
		Position:    vec3Of(file.Position),
		Direction:   vec3Of(file.Direction),
		Attenuation: mathpkg.NewVec3(1, 0, 0),
		Angle:       file.Angle,
		Penumbra:    file.Penumbra,
		Radius:      file.Radius,
		Width:       file.Width,
		Height:      file.Height,
	}
	if file.Attenuation != nil {
		light.Attenuation = vec3Of(*file.Attenuation)
	}
	switch file.Type {
	case "point":
		light.Type = scene.LightPoint
	case "directional":
		light.Type = scene.LightDirectional
	case "spot":
		light.Type = scene.LightSpot
	case "area":
		light.Type = scene.LightArea
	default:
		return scene.Light{}, fmt.Errorf("unknown light type %q", file.Type)
	}
	return light, nil
}

func vec3Of(v [3]float64) mathpkg.Vec3 {
	return mathpkg.NewVec3(v[0], v[1], v[2])
}

func repeatOf(r *float64) float64 {
	if r == nil {
		return 1
	}
	return *r
}

func applyCoefficient(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
