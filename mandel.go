package mandel

import (
	"fmt"
	"sort"
)

// Region is an axis-aligned rectangle of the complex plane.
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Valid reports whether both axes have positive extent.
// NaN bounds are never valid.
func (r Region) Valid() bool {
	return r.Xmin < r.Xmax && r.Ymin < r.Ymax
}

func (r Region) String() string {
	return fmt.Sprintf("x[%g, %g] y[%g, %g]", r.Xmin, r.Xmax, r.Ymin, r.Ymax)
}

// DefaultRegion is the full set, as shown at startup.
var DefaultRegion = Region{Xmin: -2.5, Xmax: 1, Ymin: -1, Ymax: 1}

// Landmarks worth a look, by name.
var (
	SeahorseValley       = Region{Xmin: -0.8, Xmax: -0.7, Ymin: 0.05, Ymax: 0.15}          // filaments and seahorse curls
	ElephantValley       = Region{Xmin: -1.85, Xmax: -1.75, Ymin: -0.1, Ymax: -0.02}       // bulb with trunk-like tendrils
	SpiralMinibrot       = Region{Xmin: -0.7435, Xmax: -0.742, Ymin: 0.131, Ymax: 0.1325}  // minibrot with tight spiral arms
	TripleSpiral         = Region{Xmin: -0.748, Xmax: -0.745, Ymin: 0.095, Ymax: 0.098}    // threefold spiral
	ValleyOfTheDragon    = Region{Xmin: -0.74, Xmax: -0.735, Ymin: 0.18, Ymax: 0.185}      // deep spiral filaments
	MinibrotInMiniSpiral = Region{Xmin: -1.739, Xmax: -1.7375, Ymin: -0.0235, Ymax: -0.022} // minibrot inside a spiral arm
)

// Presets maps landmark names, as accepted on the command line and in config files, to regions.
var Presets = map[string]Region{
	"full":                    DefaultRegion,
	"seahorse-valley":         SeahorseValley,
	"elephant-valley":         ElephantValley,
	"spiral-minibrot":         SpiralMinibrot,
	"triple-spiral":           TripleSpiral,
	"valley-of-the-dragon":    ValleyOfTheDragon,
	"minibrot-in-mini-spiral": MinibrotInMiniSpiral,
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for n := range Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupPreset returns the named landmark region.
func LookupPreset(name string) (Region, error) {
	r, ok := Presets[name]
	if !ok {
		return Region{}, fmt.Errorf("unknown preset %q (known: %v)", name, PresetNames())
	}
	return r, nil
}
