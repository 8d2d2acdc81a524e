package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/natepfeffer/go-scene-raytracer/pkg/loaders"
	"github.com/natepfeffer/go-scene-raytracer/pkg/renderer"
	"github.com/natepfeffer/go-scene-raytracer/pkg/scene"
)

func main() {
	sceneName := flag.String("scene", "default", "Scene: 'default', 'instanced', or a path to a .toml scene file")
	width := flag.Int("width", 800, "Image width in pixels")
	height := flag.Int("height", 600, "Image height in pixels")
	workers := flag.Int("workers", 0, "Number of render workers (0 = CPU count)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Scene Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  default    - Built-in scene with one of each primitive")
		fmt.Println("  instanced  - Built-in scene with shared column instances")
		fmt.Println("  <file>.toml - TOML scene description")
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
		return
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "raytracer",
	})

	selectedScene, maxDepth, err := createScene(*sceneName)
	if err != nil {
		logger.Fatalf("loading scene %q: %v", *sceneName, err)
	}

	// textures resolve relative to the scene file's directory
	sceneDir := filepath.Dir(*sceneName)
	textureLoader := func(filenames []string) renderer.TextureSampler {
		return loaders.LoadTextureSet(sceneDir, filenames, logger)
	}

	engine := renderer.NewEngine(*width, *height, *workers, logger, textureLoader)
	engine.OnFirstFrame(func(stats renderer.RenderStats) {
		logger.Infof("first frame: %dx%d, %d objects, %d lights, %d workers, %v",
			stats.Width, stats.Height, stats.Objects, stats.Lights, stats.Workers, stats.Duration)
	})

	if err := engine.LoadScene(selectedScene, maxDepth); err != nil {
		logger.Fatalf("loading scene %q: %v", *sceneName, err)
	}

	img, stats, err := engine.RenderFrame()
	if err != nil {
		logger.Fatalf("rendering: %v", err)
	}
	logger.Infof("render completed in %v", stats.Duration)

	outputDir := filepath.Join("output", outputName(*sceneName))
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		logger.Fatalf("creating output directory: %v", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		logger.Fatalf("creating output file: %v", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		logger.Fatalf("saving PNG: %v", err)
	}
	logger.Infof("render saved as %s", filename)
}

// createScene resolves a scene name to a scene graph and maximum
// recursion depth. Names ending in .toml load as scene files; everything
// else is a built-in.
func createScene(name string) (*scene.Scene, int, error) {
	if strings.HasSuffix(name, ".toml") {
		return loaders.LoadSceneFile(name)
	}
	switch name {
	case "default":
		return scene.NewDefaultScene(), 4, nil
	case "instanced":
		return scene.NewInstancedScene(), 4, nil
	default:
		return nil, 0, fmt.Errorf("unknown scene %q", name)
	}
}

// outputName flattens a scene name to a directory-safe label
func outputName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
