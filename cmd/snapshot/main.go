// snapshot renders a single frame of the Mandelbrot set and saves it as a PNG file.
package main

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	mandel "github.com/marben/mandel_explorer"
	"github.com/marben/mandel_explorer/internal/config"
	"github.com/marben/mandel_explorer/internal/logging"
)

type flags struct {
	configPath string
	debug      bool
	preset     string
	iterations int
	palette    int
	width      int
	height     int
	output     string
}

func main() {
	var f flags

	rootCmd := &cobra.Command{
		Use:   "snapshot [flags]",
		Short: "Render one Mandelbrot frame to a PNG file",
		Example: `  # Full set at 1920x1080
  snapshot

  # Seahorse valley, more detail, another palette
  snapshot --preset seahorse-valley --iterations 1024 --palette 2 -o seahorse.png`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(f.configPath)
			if err != nil {
				return err
			}
			f.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg, f.debug)
		},
	}

	rootCmd.Flags().StringVarP(&f.configPath, "config", "c", "", "TOML config file")
	rootCmd.Flags().BoolVarP(&f.debug, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&f.preset, "preset", "", "Landmark region: "+strings.Join(mandel.PresetNames(), ", "))
	rootCmd.Flags().IntVarP(&f.iterations, "iterations", "i", mandel.DefaultMaxIter, "Iteration budget")
	rootCmd.Flags().IntVarP(&f.palette, "palette", "p", int(mandel.DefaultPalette), fmt.Sprintf("Palette 1-%d", mandel.PaletteCount))
	rootCmd.Flags().IntVar(&f.width, "width", 1920, "Image width in pixels")
	rootCmd.Flags().IntVar(&f.height, "height", 1080, "Image height in pixels")
	rootCmd.Flags().StringVarP(&f.output, "output", "o", "mandel.png", "Output PNG file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

// apply copies explicitly set flags over the config.
func (f flags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("preset") {
		cfg.View.Preset = f.preset
	}
	if changed("iterations") {
		cfg.View.Iterations = f.iterations
	}
	if changed("palette") {
		cfg.View.Palette = f.palette
	}
	if changed("width") {
		cfg.Snapshot.Width = f.width
	}
	if changed("height") {
		cfg.Snapshot.Height = f.height
	}
	if changed("output") {
		cfg.Snapshot.Output = f.output
	}
}

// run renders the configured view and saves it as a PNG file.
func run(cfg config.Config, debug bool) error {
	level, _ := cfg.LogLevel()
	if debug {
		level = slog.LevelDebug
	}
	log := logging.Setup(level)

	view, err := cfg.Viewport()
	if err != nil {
		return fmt.Errorf("view: %w", err)
	}

	x, err := mandel.NewExplorer(mandel.Options{
		View:   view,
		Width:  cfg.Snapshot.Width,
		Height: cfg.Snapshot.Height,
		Nav:    cfg.NavOptions(),
		Engine: cfg.NewEngine(),
	})
	if err != nil {
		return fmt.Errorf("mandel.NewExplorer: %w", err)
	}

	log.Info("rendering", "region", view.Region.String(), "iterations", view.MaxIter, "palette", view.Palette)
	frame, err := x.Frame()
	if err != nil {
		return fmt.Errorf("x.Frame: %w", err)
	}

	if err := savePNG(cfg.Snapshot.Output, frame); err != nil {
		return err
	}
	log.Info("rendered image saved", "file", cfg.Snapshot.Output, "elapsed", frame.Elapsed)
	return nil
}

func savePNG(filename string, frame *mandel.Frame) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, frame.Image); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return f.Close()
}
