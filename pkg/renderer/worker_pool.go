package renderer

import (
	"image"
	"runtime"
	"sync"
)

// BandTask is one scanline band for the worker pool. Bands never overlap,
// so workers write their rows of the shared image without coordination.
type BandTask struct {
	YStart int
	YEnd   int
}

// WorkerPool spreads one frame's pixel evaluation across goroutines. The
// per-pixel evaluation has no cross-pixel dependency, so the frame is an
// embarrassingly parallel map over scanline bands.
type WorkerPool struct {
	numWorkers int
	bandRows   int
}

// NewWorkerPool creates a pool with the given number of workers;
// numWorkers <= 0 uses the CPU count
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		numWorkers: numWorkers,
		bandRows:   8,
	}
}

// NumWorkers returns the worker count
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Render evaluates the raytracer's full grid into a new image, blocking
// until every band completes. One call is one frame; frames never overlap.
func (wp *WorkerPool) Render(raytracer *Raytracer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, raytracer.width, raytracer.height))

	tasks := make(chan BandTask, (raytracer.height+wp.bandRows-1)/wp.bandRows)
	for y := 0; y < raytracer.height; y += wp.bandRows {
		end := y + wp.bandRows
		if end > raytracer.height {
			end = raytracer.height
		}
		tasks <- BandTask{YStart: y, YEnd: end}
	}
	close(tasks)

	var wg sync.WaitGroup
	for i := 0; i < wp.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				raytracer.RenderRows(img, task.YStart, task.YEnd)
			}
		}()
	}
	wg.Wait()

	return img
}
