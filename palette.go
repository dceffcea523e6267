package mandel

import (
	"fmt"
	"image/color"
	"math"
)

// PaletteID selects one of the built-in palettes. Valid ids are 1 through len(palettes).
type PaletteID int

// DefaultPalette is selected at startup.
const DefaultPalette PaletteID = 1

// Palette is an ordered gradient of at least two stops.
// Palettes are built once and never modified.
type Palette struct {
	ID    PaletteID
	Name  string
	Stops []color.RGBA
}

func opaque(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 255} }

var palettes = [...]Palette{
	{ID: 1, Name: "fire", Stops: []color.RGBA{
		opaque(0, 0, 0),
		opaque(213, 67, 31),
		opaque(251, 255, 121),
		opaque(62, 223, 89),
		opaque(43, 30, 218),
		opaque(0, 255, 247),
	}},
	{ID: 2, Name: "ultra", Stops: []color.RGBA{
		opaque(0, 7, 100),
		opaque(32, 107, 203),
		opaque(237, 255, 255),
		opaque(255, 170, 0),
		opaque(0, 2, 0),
	}},
	{ID: 3, Name: "lime", Stops: []color.RGBA{
		opaque(0, 0, 0),
		opaque(35, 232, 156),
		opaque(68, 255, 5),
		opaque(250, 247, 87),
		opaque(250, 185, 87),
		opaque(255, 255, 255),
	}},
	{ID: 4, Name: "abyss", Stops: []color.RGBA{
		opaque(0, 0, 0),
		opaque(2, 52, 82),
		opaque(6, 115, 122),
		opaque(120, 11, 114),
		opaque(120, 6, 36),
		opaque(5, 0, 1),
	}},
	{ID: 5, Name: "violet", Stops: []color.RGBA{
		opaque(0, 0, 0),
		opaque(164, 25, 224),
		opaque(120, 30, 138),
		opaque(250, 87, 96),
		opaque(250, 87, 96),
		opaque(255, 255, 255),
	}},
	{ID: 6, Name: "rainbow", Stops: []color.RGBA{
		opaque(0, 0, 0),
		opaque(104, 61, 212),
		opaque(90, 230, 227),
		opaque(49, 212, 98),
		opaque(246, 255, 0),
		opaque(246, 0, 0),
	}},
}

// PaletteCount is the number of built-in palettes.
const PaletteCount = len(palettes)

// Valid reports whether id names a built-in palette.
func (id PaletteID) Valid() bool {
	return id >= 1 && int(id) <= PaletteCount
}

// LookupPalette returns the palette for id.
func LookupPalette(id PaletteID) (Palette, error) {
	if !id.Valid() {
		return Palette{}, fmt.Errorf("unknown palette %d", id)
	}
	return palettes[id-1], nil
}

// Palettes returns all built-in palettes ordered by id.
func Palettes() []Palette {
	out := make([]Palette, PaletteCount)
	copy(out, palettes[:])
	return out
}

// At colours an iteration count for the given budget.
// A count equal to the budget is an interior point and gets the first stop.
func (p Palette) At(count, budget int) color.RGBA {
	if budget < 1 || count >= budget || count <= 0 {
		return p.Stops[0]
	}
	return p.Lerp(float64(count) / float64(budget))
}

// Lerp returns the gradient colour at u, clamped to [0, 1].
// Lerp(0) is the first stop and Lerp(1) the last, exactly.
func (p Palette) Lerp(u float64) color.RGBA {
	k := len(p.Stops)
	if !(u > 0) {
		return p.Stops[0]
	}
	if u > 1 {
		u = 1
	}
	s := u * float64(k-1)
	// s == k-1 at u == 1 would select a segment starting at the last stop.
	i := int(math.Floor(s))
	if i > k-2 {
		i = k - 2
	}
	f := s - float64(i)
	a, b := p.Stops[i], p.Stops[i+1]
	return color.RGBA{
		R: mix(a.R, b.R, f),
		G: mix(a.G, b.G, f),
		B: mix(a.B, b.B, f),
		A: mix(a.A, b.A, f),
	}
}

func mix(a, b uint8, f float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*f
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}
