// explorer is the desktop Mandelbrot explorer: a window showing the set, recomputed
// every frame, with keyboard and mouse navigation.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	mandel "github.com/marben/mandel_explorer"
	"github.com/marben/mandel_explorer/internal/config"
	"github.com/marben/mandel_explorer/internal/logging"
)

func main() {
	var (
		configPath string
		debug      bool
		preset     string
		width      int
		height     int
	)

	rootCmd := &cobra.Command{
		Use:   "explorer [flags]",
		Short: "Interactive Mandelbrot explorer",
		Long: `Opens a window showing the Mandelbrot set.

  W A S D / arrows   pan
  mouse wheel        zoom at the cursor
  left / right click double / halve the iteration budget
  1 - 6              palette
  End / Escape       quit`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("preset") {
				cfg.View.Preset = preset
			}
			if cmd.Flags().Changed("width") {
				cfg.Window.Width = width
			}
			if cmd.Flags().Changed("height") {
				cfg.Window.Height = height
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg, debug)
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&preset, "preset", "", "Start at a landmark: "+strings.Join(mandel.PresetNames(), ", "))
	rootCmd.Flags().IntVar(&width, "width", 1280, "Window width")
	rootCmd.Flags().IntVar(&height, "height", 720, "Window height")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

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
	engine := cfg.NewEngine()
	x, err := mandel.NewExplorer(mandel.Options{
		View:   view,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Nav:    cfg.NavOptions(),
		Engine: engine,
	})
	if err != nil {
		return fmt.Errorf("mandel.NewExplorer: %w", err)
	}

	g, err := newExplorerGame(x, log)
	if err != nil {
		return err
	}

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// One Update per displayed frame: every frame is recomputed.
	ebiten.SetTPS(ebiten.SyncWithFPS)

	log.Info("starting explorer", "size", fmt.Sprintf("%dx%d", cfg.Window.Width, cfg.Window.Height), "workers", engine.Workers())
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("ebiten.RunGame: %w", err)
	}
	log.Info("explorer closed")
	return nil
}
