package mandel

import (
	"fmt"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTileSize is the edge of the square area each worker task covers.
	// Tasks are bands of whole rows holding about DefaultTileSize² pixels.
	DefaultTileSize = 64

	// MaxFrameSide bounds either frame dimension.
	MaxFrameSide = 8192
)

// Engine computes escape-time grids and colours them, spreading tiles over a
// fixed number of worker goroutines. An Engine holds no per-frame state and may be
// shared between goroutines.
type Engine struct {
	workers  int
	tileSize int
}

type EngineOption func(*Engine)

// WithWorkers sets the number of concurrent tile workers. n <= 0 selects GOMAXPROCS.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithTileSize sets the tile edge in pixels; a task covers about n² pixels.
func WithTileSize(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.tileSize = n
		}
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		workers:  runtime.GOMAXPROCS(0),
		tileSize: DefaultTileSize,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Workers returns the worker count.
func (e *Engine) Workers() int { return e.workers }

// IterGrid holds one iteration count per pixel, row-major.
// Interior pixels (never escaped within MaxIter) hold 0.
type IterGrid struct {
	W, H    int
	MaxIter int
	Counts  []int
}

// At returns the count at pixel (x, y).
func (g *IterGrid) At(x, y int) int {
	return g.Counts[y*g.W+x]
}

// Escape iterates z ← z² + c from z = 0 for c = (x0, y0) and returns the 0-based
// index of the iteration after which |z| > 2, or budget if that never happens.
func Escape(x0, y0 float64, budget int) int {
	var x, y float64
	for i := 0; i < budget; i++ {
		x, y = x*x-y*y+x0, 2*x*y+y0
		if x*x+y*y > 4 {
			return i
		}
	}
	return budget
}

// Compute runs the escape-time iteration for every pixel of a w×h grid over v.
// v is taken by value and nothing else is shared between tiles, so the grid is
// complete and immutable once Compute returns. Panics if v is invalid.
func (e *Engine) Compute(v Viewport, w, h int) *IterGrid {
	v.mustValid()
	checkSize(w, h)

	g := &IterGrid{W: w, H: h, MaxIter: v.MaxIter, Counts: make([]int, w*h)}
	e.forEachBand(w, h, func(b band) {
		counts := g.Counts[b.lo:b.hi]
		for py := b.y0; py < b.y1; py++ {
			y0 := v.PlaneY(py, h)
			row := counts[(py-b.y0)*w : (py-b.y0+1)*w]
			for px := range row {
				n := Escape(v.PlaneX(px, w), y0, v.MaxIter)
				if n == v.MaxIter {
					n = 0
				}
				row[px] = n
			}
		}
	})
	return g
}

// Colorize maps every count of g through p into a fresh RGBA image.
func (e *Engine) Colorize(g *IterGrid, p Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	e.forEachBand(g.W, g.H, func(b band) {
		pix := img.Pix[4*b.lo : 4*b.hi]
		for i, n := range g.Counts[b.lo:b.hi] {
			c := p.At(n, g.MaxIter)
			pix[4*i+0] = c.R
			pix[4*i+1] = c.G
			pix[4*i+2] = c.B
			pix[4*i+3] = c.A
		}
	})
	return img
}

// Render is Compute followed by Colorize with the viewport's palette.
func (e *Engine) Render(v Viewport, w, h int) *image.RGBA {
	p, err := LookupPalette(v.Palette)
	if err != nil {
		panic("mandel: " + err.Error())
	}
	return e.Colorize(e.Compute(v, w, h), p)
}

// forEachBand calls fn for every band of a w×h grid, at most e.workers at a time,
// and returns once all calls have finished.
func (e *Engine) forEachBand(w, h int, fn func(band)) {
	var g errgroup.Group
	g.SetLimit(e.workers)
	for _, b := range splitRows(w, h, bandRows(w, e.tileSize)) {
		g.Go(func() error {
			fn(b)
			return nil
		})
	}
	_ = g.Wait()
}

func checkSize(w, h int) {
	if w < 1 || h < 1 || w > MaxFrameSide || h > MaxFrameSide {
		panic(fmt.Sprintf("mandel: bad frame size %dx%d", w, h))
	}
}
