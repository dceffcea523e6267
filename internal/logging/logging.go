// Package logging builds the slog logger shared by the binaries.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	mandel "github.com/marben/mandel_explorer"
)

// New returns a tint logger writing to w. Colour is used only when w is a terminal.
func New(w io.Writer, level slog.Level) *slog.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}))
}

// Setup installs a stderr logger as the slog default and for package mandel.
func Setup(level slog.Level) *slog.Logger {
	l := New(os.Stderr, level)
	slog.SetDefault(l)
	mandel.SetLogger(l)
	return l
}
