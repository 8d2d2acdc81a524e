package scene

import (
	"errors"
	"fmt"

	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
)

// ErrCyclicGraph reports a master reference cycle in the scene graph.
// Nothing in a cyclic graph can be flattened meaningfully, so flattening
// fails instead of recursing forever.
var ErrCyclicGraph = errors.New("scene graph contains a cycle")

// Flatten walks the scene graph in pre-order, accumulating world
// transforms, and emits the packed object buffer together with the table
// of unique texture filenames in first-seen order. A nil root yields an
// empty buffer. Structural errors (cycles, unknown shape tags, malformed
// transformations) fail the whole flatten; no partial buffer escapes.
func Flatten(root *Node) (*Buffer, []string, error) {
	if root == nil {
		return &Buffer{}, nil, nil
	}

	fl := &flattener{onPath: make(map[*Node]bool)}
	if err := fl.walk(root, mathpkg.Identity()); err != nil {
		return nil, nil, err
	}

	textures := fl.assignTextureIndices()
	return pack(fl.records), textures, nil
}

// flattener carries the traversal state. The accumulated matrix is a
// parameter of walk, not a field, so shared sub-trees are re-traversed
// once per incoming reference with that reference's transform.
type flattener struct {
	records []ObjectRecord
	onPath  map[*Node]bool // nodes on the current traversal path
}

func (fl *flattener) walk(node *Node, parent mathpkg.Mat4) error {
	if fl.onPath[node] {
		return ErrCyclicGraph
	}
	fl.onPath[node] = true
	defer delete(fl.onPath, node)

	// The declared sequence applies to geometry in declared order: for
	// [Scale, Translate] the local origin is scaled first, then moved.
	// With column vectors that means each successive transformation
	// multiplies the node-local matrix from the left.
	local := mathpkg.Identity()
	for _, transformation := range node.Transformations {
		m, err := transformation.matrix()
		if err != nil {
			return err
		}
		local = m.Mul(local)
	}
	accumulated := parent.Mul(local)

	for _, primitive := range node.Primitives {
		if !primitive.Shape.Valid() {
			return fmt.Errorf("unknown shape tag %d", primitive.Shape)
		}
		fl.records = append(fl.records, ObjectRecord{
			Shape:           primitive.Shape,
			World:           accumulated,
			Ambient:         primitive.Material.Ambient,
			Diffuse:         primitive.Material.Diffuse,
			Specular:        primitive.Material.Specular,
			Reflective:      primitive.Material.Reflective,
			Shininess:       primitive.Material.Shininess,
			IOR:             primitive.Material.IOR,
			TextureUsed:     primitive.Material.Texture.Used,
			RepeatU:         primitive.Material.Texture.RepeatU,
			RepeatV:         primitive.Material.Texture.RepeatV,
			textureFilename: primitive.Material.Texture.Filename,
		})
	}

	for _, child := range node.Children {
		if err := fl.walk(child, accumulated); err != nil {
			return err
		}
	}
	return nil
}

// assignTextureIndices gives every textured record its index in the
// first-seen filename order. Records sharing a filename share an index.
func (fl *flattener) assignTextureIndices() []string {
	var filenames []string
	seen := make(map[string]int)

	for i := range fl.records {
		rec := &fl.records[i]
		if !rec.TextureUsed {
			rec.TextureIndex = -1
			continue
		}
		index, ok := seen[rec.textureFilename]
		if !ok {
			index = len(filenames)
			seen[rec.textureFilename] = index
			filenames = append(filenames, rec.textureFilename)
		}
		rec.TextureIndex = index
	}
	return filenames
}
