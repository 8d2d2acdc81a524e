package scene

import (
	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
)

// Material holds the full shading description of a primitive. Reflective,
// Transparent, Emissive and IOR are carried through to the object buffer
// for the evaluator's inputs even though the local illumination model does
// not consume all of them.
type Material struct {
	Ambient     mathpkg.Vec3
	Diffuse     mathpkg.Vec3
	Specular    mathpkg.Vec3
	Reflective  mathpkg.Vec3
	Transparent mathpkg.Vec3
	Emissive    mathpkg.Vec3
	Shininess   float64
	IOR         float64 // index of refraction
	Texture     TextureMap
	Bump        TextureMap
}

// TextureMap references an auxiliary bitmap by filename. The filename is
// resolved to a table index per flatten; nothing is written back into the
// material.
type TextureMap struct {
	Used     bool
	Filename string
	RepeatU  float64
	RepeatV  float64
}

// NewTextureMap builds an active texture reference
func NewTextureMap(filename string, repeatU, repeatV float64) TextureMap {
	return TextureMap{Used: true, Filename: filename, RepeatU: repeatU, RepeatV: repeatV}
}

// DiffuseMaterial builds a matte material with a proportional ambient term,
// a convenience for built-in scenes
func DiffuseMaterial(color mathpkg.Vec3) Material {
	return Material{
		Ambient:   color.Multiply(0.2),
		Diffuse:   color,
		Shininess: 1,
		IOR:       1,
	}
}

// ShinyMaterial builds a material with a white specular highlight
func ShinyMaterial(color mathpkg.Vec3, shininess float64) Material {
	m := DiffuseMaterial(color)
	m.Specular = mathpkg.NewVec3(1, 1, 1)
	m.Shininess = shininess
	return m
}
