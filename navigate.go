package mandel

import "math"

// Axis selects the real (X) or imaginary (Y) axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// ZoomIn and ZoomOut are the factors used by a single zoom step.
const (
	ZoomIn  = 2.0
	ZoomOut = 0.5
)

// maxIterLimit keeps doubling from overflowing int. It is not a latency cap.
const maxIterLimit = math.MaxInt32

// NavOptions tune how commands are applied.
type NavOptions struct {
	// IterationCap bounds AdjustIterations. Zero or negative means unbounded.
	IterationCap int

	// Recenter moves the cursor point to the middle of the view when zooming,
	// instead of keeping it under the cursor.
	Recenter bool
}

// Pan translates the bound pair of axis by sign × 5% of its span.
func (v Viewport) Pan(axis Axis, sign int) Viewport {
	switch axis {
	case AxisX:
		d := float64(sign) * panStep * (v.Xmax - v.Xmin)
		v.Xmin += d
		v.Xmax += d
	case AxisY:
		d := float64(sign) * panStep * (v.Ymax - v.Ymin)
		v.Ymin += d
		v.Ymax += d
	}
	return v
}

// ZoomAt zooms by factor around the plane point under pixel (px, py) of a w×h grid.
// factor > 1 zooms in. The point under the cursor stays under the cursor.
// A zoom that would leave degenerate bounds is refused and v is returned unchanged.
func (v Viewport) ZoomAt(px, py, w, h int, factor float64) Viewport {
	return v.zoom(px, py, w, h, factor, false)
}

// ZoomTo zooms by factor and recenters the view on the plane point under (px, py).
func (v Viewport) ZoomTo(px, py, w, h int, factor float64) Viewport {
	return v.zoom(px, py, w, h, factor, true)
}

func (v Viewport) zoom(px, py, w, h int, factor float64, recenter bool) Viewport {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return v
	}
	tx := pixelFraction(clamp(px, 0, w-1), w)
	ty := pixelFraction(clamp(py, 0, h-1), h)

	// Both cursor coordinates come from the pre-zoom bounds.
	cx := lerp(v.Xmin, v.Xmax, tx)
	cy := lerp(v.Ymin, v.Ymax, ty)
	ex := (v.Xmax - v.Xmin) / factor
	ey := (v.Ymax - v.Ymin) / factor

	if recenter {
		tx, ty = 0.5, 0.5
	}

	next := v
	next.Xmin = cx - tx*ex
	next.Xmax = cx + (1-tx)*ex
	next.Ymin = cy - ty*ey
	next.Ymax = cy + (1-ty)*ey
	next.Zoom = v.Zoom * factor
	if !next.Region.Valid() || math.IsInf(next.Xmax-next.Xmin, 0) || math.IsInf(next.Ymax-next.Ymin, 0) {
		Logger().Debug("zoom refused", "factor", factor, "region", next.Region.String())
		return v
	}
	return next
}

// IterDirection tells AdjustIterations which way to go.
type IterDirection int

const (
	IterDecrease IterDirection = iota
	IterIncrease
)

// AdjustIterations doubles or halves the iteration budget. The result is never below 1.
// A positive limit caps the budget.
func (v Viewport) AdjustIterations(dir IterDirection, limit int) Viewport {
	switch dir {
	case IterIncrease:
		if v.MaxIter <= maxIterLimit/2 {
			v.MaxIter *= 2
		}
	case IterDecrease:
		v.MaxIter /= 2
	}
	if limit > 0 && v.MaxIter > limit {
		v.MaxIter = limit
	}
	if v.MaxIter < 1 {
		v.MaxIter = 1
	}
	return v
}

// SelectPalette switches to palette id. Unknown ids leave v unchanged and report false.
func (v Viewport) SelectPalette(id PaletteID) (Viewport, bool) {
	if !id.Valid() {
		return v, false
	}
	v.Palette = id
	return v, true
}

// Apply runs one navigation command against v for a w×h pixel grid.
// Commands that are not navigation (quit, resize) return v unchanged.
func (v Viewport) Apply(cmd Command, w, h int, opts NavOptions) Viewport {
	switch cmd.Kind {
	case CmdPan:
		switch cmd.Dir {
		case DirUp:
			return v.Pan(AxisY, -1)
		case DirDown:
			return v.Pan(AxisY, 1)
		case DirLeft:
			return v.Pan(AxisX, -1)
		case DirRight:
			return v.Pan(AxisX, 1)
		}
	case CmdZoom:
		factor := ZoomIn
		if cmd.Dir == DirOut {
			factor = ZoomOut
		}
		if opts.Recenter {
			return v.ZoomTo(cmd.X, cmd.Y, w, h, factor)
		}
		return v.ZoomAt(cmd.X, cmd.Y, w, h, factor)
	case CmdIterations:
		if cmd.Dir == DirIncrease {
			return v.AdjustIterations(IterIncrease, opts.IterationCap)
		}
		return v.AdjustIterations(IterDecrease, opts.IterationCap)
	case CmdPalette:
		next, _ := v.SelectPalette(cmd.Palette)
		return next
	}
	return v
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
