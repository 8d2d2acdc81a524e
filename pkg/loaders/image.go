package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	stdmath "math"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
	"github.com/natepfeffer/go-scene-raytracer/pkg/renderer"
)

// Textures larger than this on either side are downscaled before
// conversion; the evaluator point-samples, so extra resolution only
// costs memory.
const maxTextureDim = 2048

// Texture is one decoded image as a Vec3 color grid, row-major from the
// top-left corner
type Texture struct {
	Width  int
	Height int
	Pixels []mathpkg.Vec3
}

// LoadTexture loads a PNG or JPEG image and converts it to a Vec3 grid
func LoadTexture(filename string) (*Texture, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// auto-detects PNG/JPEG from the file header
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxTextureDim || bounds.Dy() > maxTextureDim {
		img = downscale(img, maxTextureDim)
		bounds = img.Bounds()
	}

	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]mathpkg.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			pixels[y*width+x] = mathpkg.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return &Texture{Width: width, Height: height, Pixels: pixels}, nil
}

// downscale resizes img so its larger side equals maxDim, preserving
// aspect ratio
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width >= height {
		height = height * maxDim / width
		width = maxDim
	} else {
		width = width * maxDim / height
		height = maxDim
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}

// At returns the texel at (x, y) without bounds checking
func (t *Texture) At(x, y int) mathpkg.Vec3 {
	return t.Pixels[y*t.Width+x]
}

// TextureSet holds the decoded textures for one scene, indexed by the
// flattener's texture table position. Entries that fail to load are
// replaced by a 1x1 white texture so the indices of the remaining entries
// stay aligned with the table. Immutable after construction, safe for
// concurrent sampling.
type TextureSet struct {
	textures []*Texture
}

var _ renderer.TextureSampler = (*TextureSet)(nil)

// LoadTextureSet decodes every filename in the table, resolving relative
// paths against baseDir. Load failures are logged and substituted, never
// fatal: a scene with a missing texture still renders.
func LoadTextureSet(baseDir string, filenames []string, logger renderer.Logger) *TextureSet {
	set := &TextureSet{textures: make([]*Texture, len(filenames))}
	for i, filename := range filenames {
		path := filename
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		texture, err := LoadTexture(path)
		if err != nil {
			if logger != nil {
				logger.Printf("texture %q failed to load, using white: %v", filename, err)
			}
			texture = whiteTexture()
		}
		set.textures[i] = texture
	}
	return set
}

func whiteTexture() *Texture {
	return &Texture{Width: 1, Height: 1, Pixels: []mathpkg.Vec3{mathpkg.NewVec3(1, 1, 1)}}
}

// Len returns the number of textures in the set
func (s *TextureSet) Len() int {
	return len(s.textures)
}

// Has reports whether index refers to a texture in the set
func (s *TextureSet) Has(index int) bool {
	return index >= 0 && index < len(s.textures)
}

// Sample point-samples the texture at (u, v). Coordinates outside [0,1]
// wrap, which is what makes the material repeat factors tile.
func (s *TextureSet) Sample(index int, u, v float64) mathpkg.Vec3 {
	if !s.Has(index) {
		return mathpkg.NewVec3(1, 1, 1)
	}
	texture := s.textures[index]

	u -= stdmath.Floor(u)
	v -= stdmath.Floor(v)

	x := int(u * float64(texture.Width))
	if x >= texture.Width {
		x = texture.Width - 1
	}
	y := int(v * float64(texture.Height))
	if y >= texture.Height {
		y = texture.Height - 1
	}
	return texture.At(x, y)
}
