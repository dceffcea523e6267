package mandel

import "fmt"

const (
	// DefaultMaxIter is the iteration budget at startup.
	DefaultMaxIter = 128

	// panStep is the fraction of the current span moved by one pan command.
	panStep = 0.05
)

// Viewport is the region of the plane mapped onto the pixel grid, together with the
// rendering parameters that go with it. It is a plain value: navigation returns a new
// Viewport and never mutates the receiver, so a copy is a consistent snapshot.
type Viewport struct {
	Region

	// Zoom is the cumulative zoom multiplier. It is informational only.
	Zoom float64

	// MaxIter is the iteration budget, always >= 1.
	MaxIter int

	Palette PaletteID
}

// DefaultViewport returns the startup state: the full set, budget 128, first palette.
func DefaultViewport() Viewport {
	return Viewport{
		Region:  DefaultRegion,
		Zoom:    1,
		MaxIter: DefaultMaxIter,
		Palette: DefaultPalette,
	}
}

// NewViewport returns a viewport over r with default parameters.
func NewViewport(r Region) Viewport {
	v := DefaultViewport()
	v.Region = r
	return v
}

// Validate checks the viewport invariants.
func (v Viewport) Validate() error {
	if !v.Region.Valid() {
		return fmt.Errorf("degenerate bounds %s", v.Region)
	}
	if v.MaxIter < 1 {
		return fmt.Errorf("iteration budget %d < 1", v.MaxIter)
	}
	if !v.Palette.Valid() {
		return fmt.Errorf("unknown palette %d", v.Palette)
	}
	return nil
}

// mustValid panics on a broken invariant. The frame pipeline has no recoverable
// error path: a bad viewport here is a programming error.
func (v Viewport) mustValid() {
	if err := v.Validate(); err != nil {
		panic("mandel: invalid viewport: " + err.Error())
	}
}

// PlaneX maps pixel column px of a grid width pixels wide onto the real axis.
// px=0 maps to Xmin and px=width-1 to Xmax, both exactly.
func (v Viewport) PlaneX(px, width int) float64 {
	return lerp(v.Xmin, v.Xmax, pixelFraction(px, width))
}

// PlaneY maps pixel row py of a grid height pixels tall onto the imaginary axis.
func (v Viewport) PlaneY(py, height int) float64 {
	return lerp(v.Ymin, v.Ymax, pixelFraction(py, height))
}

// pixelFraction returns p/(n-1); a single-pixel axis maps to its minimum.
func pixelFraction(p, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(p) / float64(n-1)
}

// lerp is written in the two-sided form so that t=0 and t=1 hit the endpoints exactly.
func lerp(lo, hi, t float64) float64 {
	return lo*(1-t) + hi*t
}
