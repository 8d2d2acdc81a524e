package scene

import (
	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
)

// LightType discriminates the supported light sources
type LightType int

const (
	LightPoint LightType = iota
	LightDirectional
	LightSpot
	LightArea
)

// MaxLights is the number of lights the evaluator consumes; extra lights
// in a scene are ignored in declaration order
const MaxLights = 16

// Light describes one light source. Which fields are meaningful depends
// on the type: position and attenuation for point and spot lights,
// direction for directional, spot and area lights, the cone parameters
// for spot lights only and the extent for area lights only.
type Light struct {
	Type        LightType
	Color       mathpkg.Vec3
	Position    mathpkg.Vec3
	Attenuation mathpkg.Vec3 // constant, linear, quadratic coefficients
	Direction   mathpkg.Vec3
	Angle       float64 // spot cone angle, radians
	Penumbra    float64 // spot penumbra, radians
	Radius      float64 // spot radius
	Width       float64 // area extent
	Height      float64 // area extent
}

// NewPointLight creates a point light with constant attenuation
func NewPointLight(position, color mathpkg.Vec3) Light {
	return Light{
		Type:        LightPoint,
		Color:       color,
		Position:    position,
		Attenuation: mathpkg.NewVec3(1, 0, 0),
	}
}

// NewDirectionalLight creates a directional light shining along direction
func NewDirectionalLight(direction, color mathpkg.Vec3) Light {
	return Light{
		Type:      LightDirectional,
		Color:     color,
		Direction: direction.Normalize(),
	}
}
