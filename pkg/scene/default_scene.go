package scene

import (
	stdmath "math"

	"github.com/natepfeffer/go-scene-raytracer/pkg/geometry"
	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
)

// NewDefaultScene creates the default demo scene: the four analytic
// primitives arranged on a stretched cube floor, lit by a point light
// overhead and a dim directional fill
func NewDefaultScene() *Scene {
	floor := NewNode().
		Transformed(Scale(10, 0.2, 10), Translate(0, -1, 0)).
		WithPrimitives(Primitive{
			Shape:    geometry.TagCube,
			Material: DiffuseMaterial(mathpkg.NewVec3(0.8, 0.8, 0.8)),
		})

	sphere := NewNode().
		Transformed(Translate(-1.2, 0, 0)).
		WithPrimitives(Primitive{
			Shape:    geometry.TagSphere,
			Material: ShinyMaterial(mathpkg.NewVec3(0.9, 0.2, 0.2), 32),
		})

	cube := NewNode().
		Transformed(Rotate(mathpkg.NewVec3(0, 1, 0), stdmath.Pi/6), Translate(0, 0, -1.2)).
		WithPrimitives(Primitive{
			Shape:    geometry.TagCube,
			Material: DiffuseMaterial(mathpkg.NewVec3(0.2, 0.6, 0.9)),
		})

	cylinder := NewNode().
		Transformed(Translate(1.2, 0, 0)).
		WithPrimitives(Primitive{
			Shape:    geometry.TagCylinder,
			Material: ShinyMaterial(mathpkg.NewVec3(0.2, 0.8, 0.3), 16),
		})

	cone := NewNode().
		Transformed(Translate(0, 0, 1.2)).
		WithPrimitives(Primitive{
			Shape:    geometry.TagCone,
			Material: DiffuseMaterial(mathpkg.NewVec3(0.9, 0.7, 0.1)),
		})

	root := NewNode().WithChildren(floor, sphere, cube, cylinder, cone)

	return &Scene{
		Root:    root,
		Globals: Globals{KA: 0.5, KD: 0.7, KS: 0.5, KT: 1},
		Camera: CameraSpec{
			Eye:         mathpkg.NewVec3(3, 2.5, 5),
			Focus:       mathpkg.NewVec3(0, 0, 0),
			Up:          mathpkg.NewVec3(0, 1, 0),
			UseFocus:    true,
			HeightAngle: 45,
		},
		Lights: []Light{
			NewPointLight(mathpkg.NewVec3(0, 5, 2), mathpkg.NewVec3(1, 1, 1)),
			NewDirectionalLight(mathpkg.NewVec3(-1, -1, -0.5), mathpkg.NewVec3(0.3, 0.3, 0.35)),
		},
	}
}

// NewInstancedScene creates a scene whose central column is a master
// sub-tree referenced by several parents, each with its own transform.
// Flattening must emit one set of records per reference.
func NewInstancedScene() *Scene {
	column := NewNode().
		WithPrimitives(Primitive{
			Shape:    geometry.TagCylinder,
			Material: DiffuseMaterial(mathpkg.NewVec3(0.8, 0.75, 0.6)),
		}).
		WithChildren(NewNode().
			Transformed(Scale(0.5, 0.5, 0.5), Translate(0, 0.75, 0)).
			WithPrimitives(Primitive{
				Shape:    geometry.TagSphere,
				Material: ShinyMaterial(mathpkg.NewVec3(0.9, 0.9, 0.95), 64),
			}))

	root := NewNode()
	positions := []mathpkg.Vec3{
		{X: -2, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
	}
	for _, p := range positions {
		root.WithChildren(NewNode().
			Transformed(Translate(p.X, p.Y, p.Z)).
			WithChildren(column))
	}

	floor := NewNode().
		Transformed(Scale(12, 0.2, 12), Translate(0, -0.7, 0)).
		WithPrimitives(Primitive{
			Shape:    geometry.TagCube,
			Material: DiffuseMaterial(mathpkg.NewVec3(0.7, 0.7, 0.7)),
		})
	root.WithChildren(floor)

	return &Scene{
		Root:    root,
		Globals: Globals{KA: 0.5, KD: 0.7, KS: 0.6, KT: 1},
		Camera: CameraSpec{
			Eye:         mathpkg.NewVec3(0, 2, 7),
			Look:        mathpkg.NewVec3(0, -0.25, -1),
			Up:          mathpkg.NewVec3(0, 1, 0),
			HeightAngle: 40,
		},
		Lights: []Light{
			NewPointLight(mathpkg.NewVec3(3, 6, 4), mathpkg.NewVec3(1, 1, 0.95)),
			NewPointLight(mathpkg.NewVec3(-4, 3, -2), mathpkg.NewVec3(0.4, 0.4, 0.5)),
		},
	}
}
