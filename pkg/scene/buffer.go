package scene

import (
	"github.com/natepfeffer/go-scene-raytracer/pkg/geometry"
	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
)

// Packed object record layout. The 35 scalars per record and their order
// are a wire contract between the flattener and the evaluator; the row
// stride is rounded up to a whole number of 4-scalar texels because the
// consuming storage is an RGBA float texture.
const (
	RecordScalars = 35
	RecordStride  = 36 // RecordScalars rounded up to a multiple of 4

	offsetShape        = 0
	offsetWorldMatrix  = 1 // 16 scalars, row-major
	offsetAmbient      = 17
	offsetDiffuse      = 20
	offsetSpecular     = 23
	offsetShininess    = 26
	offsetIOR          = 27
	offsetTextureUsed  = 28
	offsetRepeatU      = 29
	offsetRepeatV      = 30
	offsetTextureIndex = 31
	offsetReflective   = 32
)

// Buffer is the padded row-per-object array produced by the flattener:
// one record per row, float32 scalars, unused padding zeroed. It is the
// sole interface between scene data and the evaluator.
type Buffer struct {
	Data  []float32
	Count int // number of object records
}

// Width returns the row width in 4-scalar texels
func (b *Buffer) Width() int {
	return RecordStride / 4
}

// Height returns the number of rows
func (b *Buffer) Height() int {
	return b.Count
}

// Record returns the scalar slice for object i, including padding
func (b *Buffer) Record(i int) []float32 {
	return b.Data[i*RecordStride : (i+1)*RecordStride]
}

// ObjectRecord is one flattened world-space object in decoded form
type ObjectRecord struct {
	Shape        geometry.Tag
	World        mathpkg.Mat4
	Ambient      mathpkg.Vec3
	Diffuse      mathpkg.Vec3
	Specular     mathpkg.Vec3
	Reflective   mathpkg.Vec3
	Shininess    float64
	IOR          float64
	TextureUsed  bool
	RepeatU      float64
	RepeatV      float64
	TextureIndex int

	// filename backing the surface texture slot, held until index
	// assignment; not part of the packed layout
	textureFilename string
}

// pack serializes records into a fresh buffer
func pack(records []ObjectRecord) *Buffer {
	buf := &Buffer{
		Data:  make([]float32, len(records)*RecordStride),
		Count: len(records),
	}
	for i, rec := range records {
		row := buf.Record(i)
		row[offsetShape] = float32(rec.Shape)

		world := rec.World.Flatten()
		for j, s := range world {
			row[offsetWorldMatrix+j] = float32(s)
		}

		packColor(row[offsetAmbient:], rec.Ambient)
		packColor(row[offsetDiffuse:], rec.Diffuse)
		packColor(row[offsetSpecular:], rec.Specular)
		row[offsetShininess] = float32(rec.Shininess)
		row[offsetIOR] = float32(rec.IOR)
		if rec.TextureUsed {
			row[offsetTextureUsed] = 1
		}
		row[offsetRepeatU] = float32(rec.RepeatU)
		row[offsetRepeatV] = float32(rec.RepeatV)
		row[offsetTextureIndex] = float32(rec.TextureIndex)
		packColor(row[offsetReflective:], rec.Reflective)
	}
	return buf
}

func packColor(dst []float32, c mathpkg.Vec3) {
	dst[0] = float32(c.X)
	dst[1] = float32(c.Y)
	dst[2] = float32(c.Z)
}

// DecodeRecord reads object i back out of the packed buffer. The evaluator
// uses this to build its per-frame object views, so any layout change here
// must change pack as well.
func (b *Buffer) DecodeRecord(i int) ObjectRecord {
	row := b.Record(i)

	var world [16]float64
	for j := range world {
		world[j] = float64(row[offsetWorldMatrix+j])
	}

	return ObjectRecord{
		Shape:        geometry.Tag(row[offsetShape]),
		World:        mathpkg.Mat4FromSlice(world[:]),
		Ambient:      unpackColor(row[offsetAmbient:]),
		Diffuse:      unpackColor(row[offsetDiffuse:]),
		Specular:     unpackColor(row[offsetSpecular:]),
		Reflective:   unpackColor(row[offsetReflective:]),
		Shininess:    float64(row[offsetShininess]),
		IOR:          float64(row[offsetIOR]),
		TextureUsed:  row[offsetTextureUsed] != 0,
		RepeatU:      float64(row[offsetRepeatU]),
		RepeatV:      float64(row[offsetRepeatV]),
		TextureIndex: int(row[offsetTextureIndex]),
	}
}

func unpackColor(src []float32) mathpkg.Vec3 {
	return mathpkg.NewVec3(float64(src[0]), float64(src[1]), float64(src[2]))
}
