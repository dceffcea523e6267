// Package config loads explorer settings from a TOML file on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"

	mandel "github.com/marben/mandel_explorer"
)

// Config is the full set of settings shared by the binaries. Each binary reads the
// sections it needs.
type Config struct {
	Window     WindowConfig     `toml:"window"`
	View       ViewConfig       `toml:"view"`
	Engine     EngineConfig     `toml:"engine"`
	Navigation NavigationConfig `toml:"navigation"`
	Server     ServerConfig     `toml:"server"`
	Snapshot   SnapshotConfig   `toml:"snapshot"`
	Log        LogConfig        `toml:"log"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

// ViewConfig describes the starting viewport. Preset wins over Region when both are set.
type ViewConfig struct {
	Preset     string        `toml:"preset,omitempty"`
	Region     *RegionConfig `toml:"region,omitempty"`
	Iterations int           `toml:"iterations"`
	Palette    int           `toml:"palette"`
}

type RegionConfig struct {
	Xmin float64 `toml:"xmin"`
	Xmax float64 `toml:"xmax"`
	Ymin float64 `toml:"ymin"`
	Ymax float64 `toml:"ymax"`
}

type EngineConfig struct {
	// Workers is the number of tile goroutines; 0 means GOMAXPROCS.
	Workers  int `toml:"workers"`
	TileSize int `toml:"tile_size"`
}

type NavigationConfig struct {
	// IterationCap bounds the iteration budget; 0 leaves it unbounded.
	IterationCap   int  `toml:"iteration_cap"`
	RecenterOnZoom bool `toml:"recenter_on_zoom"`
}

type ServerConfig struct {
	Listen    string `toml:"listen"`
	StaticDir string `toml:"static_dir"`
	// Width and Height are the frame size used until a client reports its canvas size.
	Width  int `toml:"width"`
	Height int `toml:"height"`
	// MaxWidth and MaxHeight bound the frame size a client may ask for.
	MaxWidth  int `toml:"max_width"`
	MaxHeight int `toml:"max_height"`
	// IterationCap bounds the budget of every web session, on top of navigation.iteration_cap.
	IterationCap int `toml:"iteration_cap"`
}

type SnapshotConfig struct {
	Output string `toml:"output"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Window: WindowConfig{Width: 1280, Height: 720, Title: "Mandelbrot Explorer"},
		View: ViewConfig{
			Iterations: mandel.DefaultMaxIter,
			Palette:    int(mandel.DefaultPalette),
		},
		Engine: EngineConfig{TileSize: mandel.DefaultTileSize},
		Server: ServerConfig{
			Listen:       ":8080",
			StaticDir:    "./static",
			Width:        960,
			Height:       540,
			MaxWidth:     3840,
			MaxHeight:    2160,
			IterationCap: 4096,
		},
		Snapshot: SnapshotConfig{
			Output: "mandel.png",
			Width:  1920,
			Height: 1080,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. Keys the file sets that Config does not know are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("parsing %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns the defaults when path is empty.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width < 1 || c.Window.Height < 1 || c.Window.Width > mandel.MaxFrameSide || c.Window.Height > mandel.MaxFrameSide {
		errs = append(errs, fmt.Errorf("window: bad size %dx%d", c.Window.Width, c.Window.Height))
	}
	if _, err := c.Viewport(); err != nil {
		errs = append(errs, fmt.Errorf("view: %w", err))
	}
	if c.Engine.Workers < 0 {
		errs = append(errs, fmt.Errorf("engine: negative workers %d", c.Engine.Workers))
	}
	if c.Engine.TileSize < 1 {
		errs = append(errs, fmt.Errorf("engine: bad tile_size %d", c.Engine.TileSize))
	}
	if c.Navigation.IterationCap < 0 {
		errs = append(errs, fmt.Errorf("navigation: negative iteration_cap %d", c.Navigation.IterationCap))
	}
	if limit := c.Navigation.IterationCap; limit > 0 && c.View.Iterations > limit {
		errs = append(errs, fmt.Errorf("view: iterations %d above iteration_cap %d", c.View.Iterations, limit))
	}
	if c.Server.Width < 1 || c.Server.Height < 1 || c.Server.Width > mandel.MaxFrameSide || c.Server.Height > mandel.MaxFrameSide {
		errs = append(errs, fmt.Errorf("server: bad frame size %dx%d", c.Server.Width, c.Server.Height))
	}
	if c.Server.MaxWidth < 1 || c.Server.MaxHeight < 1 || c.Server.MaxWidth > mandel.MaxFrameSide || c.Server.MaxHeight > mandel.MaxFrameSide {
		errs = append(errs, fmt.Errorf("server: bad max frame size %dx%d", c.Server.MaxWidth, c.Server.MaxHeight))
	} else if c.Server.Width > c.Server.MaxWidth || c.Server.Height > c.Server.MaxHeight {
		errs = append(errs, fmt.Errorf("server: frame size %dx%d above max %dx%d",
			c.Server.Width, c.Server.Height, c.Server.MaxWidth, c.Server.MaxHeight))
	}
	if c.Server.IterationCap < 1 {
		errs = append(errs, fmt.Errorf("server: bad iteration_cap %d", c.Server.IterationCap))
	}
	if c.Snapshot.Width < 1 || c.Snapshot.Height < 1 || c.Snapshot.Width > mandel.MaxFrameSide || c.Snapshot.Height > mandel.MaxFrameSide {
		errs = append(errs, fmt.Errorf("snapshot: bad frame size %dx%d", c.Snapshot.Width, c.Snapshot.Height))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	return errors.Join(errs...)
}

// Viewport builds the starting viewport.
func (c Config) Viewport() (mandel.Viewport, error) {
	v := mandel.DefaultViewport()
	switch {
	case c.View.Preset != "":
		r, err := mandel.LookupPreset(c.View.Preset)
		if err != nil {
			return mandel.Viewport{}, err
		}
		v.Region = r
	case c.View.Region != nil:
		v.Region = mandel.Region{
			Xmin: c.View.Region.Xmin,
			Xmax: c.View.Region.Xmax,
			Ymin: c.View.Region.Ymin,
			Ymax: c.View.Region.Ymax,
		}
	}
	v.MaxIter = c.View.Iterations
	v.Palette = mandel.PaletteID(c.View.Palette)
	if err := v.Validate(); err != nil {
		return mandel.Viewport{}, err
	}
	return v, nil
}

func (c Config) NavOptions() mandel.NavOptions {
	return mandel.NavOptions{
		IterationCap: c.Navigation.IterationCap,
		Recenter:     c.Navigation.RecenterOnZoom,
	}
}

// SessionNavOptions is NavOptions for a web session: the budget never exceeds
// Server.IterationCap, however navigation.iteration_cap is set.
func (c Config) SessionNavOptions() mandel.NavOptions {
	o := c.NavOptions()
	if o.IterationCap == 0 || o.IterationCap > c.Server.IterationCap {
		o.IterationCap = c.Server.IterationCap
	}
	return o
}

func (c Config) NewEngine() *mandel.Engine {
	return mandel.NewEngine(
		mandel.WithWorkers(c.Engine.Workers),
		mandel.WithTileSize(c.Engine.TileSize),
	)
}

// LogLevel parses Log.Level ("debug", "info", "warn", "error").
func (c Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, err
	}
	return l, nil
}
