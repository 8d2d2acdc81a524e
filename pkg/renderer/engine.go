package renderer

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/natepfeffer/go-scene-raytracer/pkg/scene"
)

// RenderStats summarizes one completed frame
type RenderStats struct {
	Width    int
	Height   int
	Objects  int
	Lights   int
	Workers  int
	Duration time.Duration
}

// sceneSnapshot is everything derived from one scene load: the flattened
// object buffer, texture table and set, light list and globals. It is
// replaced wholesale on reload and never mutated.
type sceneSnapshot struct {
	buffer    *scene.Buffer
	textures  TextureSampler
	filenames []string
	lights    []scene.Light
	globals   scene.Globals
	maxDepth  int
}

// TextureLoader resolves the flattener's filename table into a sampler.
// Resource errors are the loader's to absorb; it must always return a
// usable sampler.
type TextureLoader func(filenames []string) TextureSampler

// Engine is the single-threaded frame orchestrator: it owns the camera,
// swaps scene snapshots atomically between frames, and issues one
// full-grid evaluation per RenderFrame call. A frame observes either the
// old snapshot or the new one in full, never a partial mix.
type Engine struct {
	width, height int
	camera        *Camera
	pool          *WorkerPool
	logger        Logger
	loadTextures  TextureLoader

	snapshot atomic.Pointer[sceneSnapshot]

	firstFrameOnce sync.Once
	firstFrame     func(RenderStats)
}

// NewEngine creates an engine rendering at the given resolution.
// numWorkers <= 0 uses the CPU count; logger and textureLoader may be nil.
func NewEngine(width, height, numWorkers int, logger Logger, textureLoader TextureLoader) *Engine {
	camera := NewCamera()
	camera.SetAspect(float64(width) / float64(height))
	return &Engine{
		width:        width,
		height:       height,
		camera:       camera,
		pool:         NewWorkerPool(numWorkers),
		logger:       logger,
		loadTextures: textureLoader,
	}
}

// Camera returns the engine's camera. Mutations apply to the next frame;
// they must happen between frames, not during one.
func (e *Engine) Camera() *Camera {
	return e.camera
}

// OnFirstFrame registers an observer invoked once, after the first
// successful frame, with that frame's stats. A diagnostic hook, not part
// of the rendering contract.
func (e *Engine) OnFirstFrame(fn func(RenderStats)) {
	e.firstFrame = fn
}

// LoadScene flattens the scene graph, resolves its texture table, resets
// the camera to the declared viewpoint and swaps the snapshot in
// atomically. On failure the previous snapshot stays in effect.
func (e *Engine) LoadScene(sc *scene.Scene, maxDepth int) error {
	if sc.Root == nil && e.logger != nil {
		e.logger.Printf("scene has no root node, rendering empty buffer")
	}

	buffer, filenames, err := scene.Flatten(sc.Root)
	if err != nil {
		return fmt.Errorf("flattening scene: %w", err)
	}

	var textures TextureSampler
	if e.loadTextures != nil && len(filenames) > 0 {
		textures = e.loadTextures(filenames)
	}

	dropped := len(sc.Lights) - scene.MaxLights
	if dropped > 0 && e.logger != nil {
		e.logger.Printf("scene declares %d lights, ignoring the last %d", len(sc.Lights), dropped)
	}

	e.camera.Reset(sc.Camera)

	e.snapshot.Store(&sceneSnapshot{
		buffer:    buffer,
		textures:  textures,
		filenames: filenames,
		lights:    sc.Lights,
		globals:   sc.Globals,
		maxDepth:  maxDepth,
	})

	if e.logger != nil {
		e.logger.Printf("loaded scene: %d objects, %d lights, %d textures",
			buffer.Count, len(sc.Lights), len(filenames))
	}
	return nil
}

// RenderFrame evaluates one full frame and blocks until the grid
// completes. The snapshot and camera matrices are read exactly once, at
// frame start.
func (e *Engine) RenderFrame() (*image.RGBA, RenderStats, error) {
	snapshot := e.snapshot.Load()
	if snapshot == nil {
		return nil, RenderStats{}, fmt.Errorf("no scene loaded")
	}

	frame := NewFrameInputs(snapshot.buffer, snapshot.textures, snapshot.lights,
		snapshot.globals, e.camera, snapshot.maxDepth)
	raytracer := NewRaytracer(frame, e.width, e.height)

	start := time.Now()
	img := e.pool.Render(raytracer)
	stats := RenderStats{
		Width:    e.width,
		Height:   e.height,
		Objects:  frame.ObjectCount(),
		Lights:   frame.LightCount(),
		Workers:  e.pool.NumWorkers(),
		Duration: time.Since(start),
	}

	if e.firstFrame != nil {
		e.firstFrameOnce.Do(func() { e.firstFrame(stats) })
	}
	return img, stats, nil
}
