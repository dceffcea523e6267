package main

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	mandel "github.com/marben/mandel_explorer"
)

const (
	statusFontSize    = 24
	statusLineSpacing = 30
)

// explorerGame adapts a mandel.Explorer to ebiten. Update is the control thread:
// it forwards input, then renders the next frame. Draw only uploads and overlays.
type explorerGame struct {
	x   *mandel.Explorer
	log *slog.Logger

	w, h  int
	frame *mandel.Frame
	tex   *ebiten.Image
	face  *text.GoTextFace
	cmds  []mandel.Command
}

func newExplorerGame(x *mandel.Explorer, log *slog.Logger) (*explorerGame, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load status font: %w", err)
	}
	w, h := x.Size()
	return &explorerGame{
		x:    x,
		log:  log,
		w:    w,
		h:    h,
		face: &text.GoTextFace{Source: src, Size: statusFontSize},
	}, nil
}

func (g *explorerGame) Update() error {
	g.cmds = pollInput(g.cmds[:0])
	for _, c := range g.cmds {
		g.log.Debug("command", "kind", c.Kind, "dir", c.Dir, "x", c.X, "y", c.Y, "palette", c.Palette)
	}
	g.x.Enqueue(g.cmds...)

	f, err := g.x.Frame()
	if errors.Is(err, mandel.ErrQuit) {
		return ebiten.Termination
	}
	if err != nil {
		return err
	}
	g.frame = f
	return nil
}

func (g *explorerGame) Draw(screen *ebiten.Image) {
	if g.frame == nil {
		return
	}
	img := g.frame.Image
	b := img.Bounds()
	if g.tex == nil || g.tex.Bounds().Dx() != b.Dx() || g.tex.Bounds().Dy() != b.Dy() {
		if g.tex != nil {
			g.tex.Deallocate()
		}
		g.tex = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.tex.WritePixels(img.Pix)
	screen.DrawImage(g.tex, nil)

	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.ColorScale.ScaleWithColor(color.White)
	op.LineSpacing = statusLineSpacing
	text.Draw(screen, mandel.StatusOf(g.frame.View, ebiten.ActualFPS()).String(), g.face, op)
}

func (g *explorerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := min(max(outsideWidth, 1), mandel.MaxFrameSide)
	h := min(max(outsideHeight, 1), mandel.MaxFrameSide)
	if w != g.w || h != g.h {
		g.w, g.h = w, h
		g.x.Enqueue(mandel.Resize(w, h))
	}
	return w, h
}
