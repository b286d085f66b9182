package configspace

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"
)

// Collider is the part of the instrument space the sampler needs. It is
// read concurrently by the worker pool, so an implementation must not
// mutate shared state while a sample runs.
type Collider interface {
	// CheckCollision poses the instrument at the given scattering
	// angles (radians) and reports whether it collides, and with which
	// obstacle.
	CheckCollision(a2, a4 float64) (colliding bool, obstacle uint32)
}

// Progress receives sampling progress in [0, 1]. Returning false
// requests cancellation.
type Progress func(start, end bool, frac float64, msg string) bool

// Bounds is the sampled angular window, radians.
type Bounds struct {
	A2Lo, A2Hi float64
	A4Lo, A4Hi float64
}

// Options tunes the sampler.
type Options struct {
	// MaxThreads bounds the worker pool; the pool size is
	// min(NumCPU/2, MaxThreads), at least one.
	MaxThreads int
	// Notifications bounds how many progress callbacks are emitted.
	// Zero means the default of 100.
	Notifications int
	Progress      Progress
	// Stop is polled between rows; setting it cancels the sample.
	Stop *atomic.Bool
}

func (o Options) poolSize() int {
	n := runtime.NumCPU() / 2
	if o.MaxThreads > 0 && n > o.MaxThreads {
		n = o.MaxThreads
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Sample rasterises the configuration space: one cell per (da4, da2)
// step, each posed on the collider independently. Rows are distributed
// over a bounded worker pool. The second return is false when the
// sample was cancelled and the raster is partial.
func Sample(col Collider, b Bounds, da2, da4 float64, walls *WallIndex, opts Options) (*Raster, bool) {
	w := int(math.Ceil((b.A4Hi - b.A4Lo) / da4))
	h := int(math.Ceil((b.A2Hi - b.A2Lo) / da2))
	raster := NewRaster(w, h)
	if w <= 0 || h <= 0 {
		return raster, true
	}

	msg := "Calculating configuration space"
	if opts.Progress != nil && !opts.Progress(true, false, 0, msg) {
		return raster, false
	}

	rows := make(chan int)
	rowsDone := make(chan int)
	var wg sync.WaitGroup
	for worker := 0; worker < opts.poolSize(); worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				for x := 0; x < w; x++ {
					a4 := b.A4Lo + (float64(x)+0.5)*da4
					a2 := b.A2Lo + (float64(y)+0.5)*da2
					colliding, obstacle := col.CheckCollision(a2, a4)
					if colliding {
						raster.Set(x, y, walls.Assign(obstacle))
					}
				}
				rowsDone <- y
			}
		}()
	}

	var feederStopped atomic.Bool
	go func() {
		defer close(rows)
		for y := 0; y < h; y++ {
			if opts.Stop != nil && opts.Stop.Load() {
				feederStopped.Store(true)
				return
			}
			rows <- y
		}
	}()
	go func() {
		wg.Wait()
		close(rowsDone)
	}()

	notify := opts.Notifications
	if notify <= 0 {
		notify = 100
	}
	skip := h / notify
	if skip < 1 {
		skip = 1
	}

	done := 0
	cancelled := false
	for range rowsDone {
		done++
		if opts.Progress != nil && done%skip == 0 {
			if !opts.Progress(false, false, float64(done)/float64(h), msg) {
				if opts.Stop != nil {
					opts.Stop.Store(true)
				}
				cancelled = true
			}
		}
	}
	cancelled = cancelled || feederStopped.Load() || done < h

	if opts.Progress != nil {
		opts.Progress(false, true, 1, msg)
	}
	return raster, !cancelled
}
