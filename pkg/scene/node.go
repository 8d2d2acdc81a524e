package scene

import (
	"github.com/natepfeffer/go-scene-raytracer/pkg/geometry"
	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
)

// Node is one element of the scene graph: an ordered transformation
// sequence, child nodes and attached primitives. A node may be referenced
// as a child by more than one parent ("master" sub-trees), so the graph is
// a DAG rather than a tree. Nodes carry no parent pointers and no cached
// world matrices: the flattener accumulates transforms as traversal-local
// state, so a shared sub-tree is re-traversed once per incoming reference.
type Node struct {
	Transformations []Transformation
	Children        []*Node
	Primitives      []Primitive
}

// NewNode creates an empty node
func NewNode() *Node {
	return &Node{}
}

// Transformed appends transformations in declared order and returns the
// node for chaining
func (n *Node) Transformed(transformations ...Transformation) *Node {
	n.Transformations = append(n.Transformations, transformations...)
	return n
}

// WithChildren attaches child nodes and returns the node for chaining
func (n *Node) WithChildren(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// WithPrimitives attaches primitives and returns the node for chaining
func (n *Node) WithPrimitives(primitives ...Primitive) *Node {
	n.Primitives = append(n.Primitives, primitives...)
	return n
}

// Primitive is an implicit unit shape plus its material
type Primitive struct {
	Shape    geometry.Tag
	Material Material
}

// Scene bundles everything the scene-graph producer hands over: the root
// node, global illumination coefficients, the declared camera viewpoint
// and the light list.
type Scene struct {
	Root    *Node
	Globals Globals
	Camera  CameraSpec
	Lights  []Light
}

// Globals are the scene-wide illumination coefficients
type Globals struct {
	KA float64 // ambient
	KD float64 // diffuse
	KS float64 // specular
	KT float64 // transparency (carried through, unused by local shading)
}

// DefaultGlobals returns coefficients that leave materials unscaled
func DefaultGlobals() Globals {
	return Globals{KA: 1, KD: 1, KS: 1, KT: 1}
}

// CameraSpec is the declarative camera viewpoint from the scene
// description: eye plus either a look vector or a focus point, and an up
// vector. The two orientation forms are mutually exclusive.
type CameraSpec struct {
	Eye         mathpkg.Vec3
	Up          mathpkg.Vec3
	Look        mathpkg.Vec3
	Focus       mathpkg.Vec3
	UseFocus    bool
	HeightAngle float64 // view angle in degrees
}
