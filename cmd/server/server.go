package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/marben/mandel_explorer/internal/config"
	"github.com/marben/mandel_explorer/internal/logging"
)

// main is the entry point for the Mandelbrot web server.
// Note: all rendering happens on the server; browsers only send input and draw the frames they receive.
func main() {
	var (
		configPath string
		debug      bool
		listen     string
		staticDir  string
	)

	rootCmd := &cobra.Command{
		Use:   "server [flags]",
		Short: "Serve the Mandelbrot explorer to browsers over websocket",
		Example: `  # Serve ./static (index.html, main.wasm, wasm_exec.js) on :8080
  server

  server --listen :9000 --static ./web --config explorer.toml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Server.Listen = listen
			}
			if cmd.Flags().Changed("static") {
				cfg.Server.StaticDir = staticDir
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, cfg, debug)
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&listen, "listen", ":8080", "HTTP listen address")
	rootCmd.Flags().StringVar(&staticDir, "static", "./static", "Directory with index.html and main.wasm")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, debug bool) error {
	level, _ := cfg.LogLevel()
	if debug {
		level = slog.LevelDebug
	}
	log := logging.Setup(level)

	srv := webServer(cfg, log)

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Server.Listen, "static", cfg.Server.StaticDir)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("httpServer: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpServer.Shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer: %w", err)
	}
	return nil
}
