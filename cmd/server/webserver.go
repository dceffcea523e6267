package main

import (
	"image"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	mandel "github.com/marben/mandel_explorer"
	"github.com/marben/mandel_explorer/internal/config"
	"github.com/marben/mandel_explorer/internal/wire"
)

// webServer creates the http server: files from cfg.Server.StaticDir (index.html, main.wasm)
// and the websocket endpoint each browser tab explores through.
func webServer(cfg config.Config, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(wire.Path, websocketHandler(cfg, log))
	mux.Handle("/", http.FileServer(http.Dir(cfg.Server.StaticDir)))

	return &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// websocketHandler handles the http ws endpoint.
// Every accepted connection gets its own Explorer starting at the configured view.
func websocketHandler(cfg config.Config, log *slog.Logger) http.HandlerFunc {
	var sessions atomic.Int64
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := cfg.Viewport()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		nav := cfg.SessionNavOptions()
		view.MaxIter = min(view.MaxIter, nav.IterationCap)
		x, err := mandel.NewExplorer(mandel.Options{
			View:   view,
			Width:  cfg.Server.Width,
			Height: cfg.Server.Height,
			Nav:    nav,
			Engine: cfg.NewEngine(),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // TODO: restrict to the configured host once deployed behind a name
		})
		if err != nil {
			log.Warn("websocket accept", "remote", r.RemoteAddr, "err", err)
			return
		}
		defer c.CloseNow()

		id := sessions.Add(1)
		sessLog := log.With("session", id, "remote", r.RemoteAddr)
		sessLog.Info("session started")

		s := newSession(c, x, sessLog, image.Pt(cfg.Server.MaxWidth, cfg.Server.MaxHeight))
		if err := s.serve(r.Context()); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				sessLog.Info("session closed by client", "frames", s.framesSent)
			default:
				sessLog.Warn("session ended", "frames", s.framesSent, "err", err)
			}
			return
		}
		sessLog.Info("session ended", "frames", s.framesSent, "skipped", s.skipped)
	}
}
