package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
)

func writeTestPNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	f.Close()
}

func checkerboardPNG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})

	path := filepath.Join(dir, "checker.png")
	writeTestPNG(t, path, img)
	return path
}

func checkColor(t *testing.T, name string, got, expected mathpkg.Vec3) {
	t.Helper()
	if !got.ApproxEqual(expected, 0.01) {
		t.Errorf("%s: expected %v, got %v", name, expected, got)
	}
}

func TestLoadTexture(t *testing.T) {
	path := checkerboardPNG(t, t.TempDir())

	texture, err := LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture failed: %v", err)
	}

	if texture.Width != 2 || texture.Height != 2 {
		t.Errorf("Expected 2x2 texture, got %dx%d", texture.Width, texture.Height)
	}

	checkColor(t, "Top-left (white)", texture.At(0, 0), mathpkg.NewVec3(1, 1, 1))
	checkColor(t, "Top-right (red)", texture.At(1, 0), mathpkg.NewVec3(1, 0, 0))
	checkColor(t, "Bottom-left (green)", texture.At(0, 1), mathpkg.NewVec3(0, 1, 0))
	checkColor(t, "Bottom-right (blue)", texture.At(1, 1), mathpkg.NewVec3(0, 0, 1))
}

func TestLoadTexture_MissingFile(t *testing.T) {
	if _, err := LoadTexture(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatal("Expected an error for a missing file")
	}
}

func TestLoadTextureSet_FallbackToWhite(t *testing.T) {
	dir := t.TempDir()
	checkerboardPNG(t, dir)

	logger := &countingLogger{}
	set := LoadTextureSet(dir, []string{"checker.png", "missing.png"}, logger)

	if set.Len() != 2 {
		t.Fatalf("Expected 2 textures, got %d", set.Len())
	}
	if !set.Has(0) || !set.Has(1) {
		t.Error("Both table indices should resolve")
	}
	if set.Has(2) || set.Has(-1) {
		t.Error("Out-of-table indices should not resolve")
	}
	// index alignment survives the failure: the missing entry samples white
	checkColor(t, "missing texture", set.Sample(1, 0.5, 0.5), mathpkg.NewVec3(1, 1, 1))
	if logger.lines == 0 {
		t.Error("Expected a warning for the missing texture")
	}
}

func TestTextureSet_SampleWraps(t *testing.T) {
	dir := t.TempDir()
	checkerboardPNG(t, dir)
	set := LoadTextureSet(dir, []string{"checker.png"}, nil)

	topLeft := set.Sample(0, 0.25, 0.25)
	checkColor(t, "in-range sample", topLeft, mathpkg.NewVec3(1, 1, 1))

	// repeat factors push u and v past 1; wrapping lands on the same texel
	checkColor(t, "wrapped u", set.Sample(0, 2.25, 0.25), topLeft)
	checkColor(t, "wrapped v", set.Sample(0, 0.25, 3.25), topLeft)
	checkColor(t, "negative u", set.Sample(0, -0.75, 0.25), topLeft)

	// u = 1 wraps to the left column rather than reading out of bounds
	checkColor(t, "u=1", set.Sample(0, 1, 0.25), topLeft)
}

type countingLogger struct{ lines int }

func (l *countingLogger) Printf(format string, args ...interface{}) { l.lines++ }
