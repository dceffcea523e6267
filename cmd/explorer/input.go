package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	mandel "github.com/marben/mandel_explorer"
)

const (
	// Held pan keys repeat after repeatDelay ticks, then every repeatEvery ticks.
	repeatDelay = 15
	repeatEvery = 3
)

var panKeys = []struct {
	keys []ebiten.Key
	dir  mandel.Direction
}{
	{[]ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp}, mandel.DirUp},
	{[]ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft}, mandel.DirLeft},
	{[]ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown}, mandel.DirDown},
	{[]ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight}, mandel.DirRight},
}

var paletteKeys = []ebiten.Key{
	ebiten.KeyDigit1,
	ebiten.KeyDigit2,
	ebiten.KeyDigit3,
	ebiten.KeyDigit4,
	ebiten.KeyDigit5,
	ebiten.KeyDigit6,
}

// pollInput turns this tick's keyboard and mouse state into commands.
// WASD/arrows pan, the wheel zooms at the cursor, left/right click double/halve the
// iteration budget, 1-6 pick a palette, End or Escape quits.
func pollInput(cmds []mandel.Command) []mandel.Command {
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return append(cmds, mandel.Quit())
	}

	for _, pk := range panKeys {
		for _, k := range pk.keys {
			if repeating(k) {
				cmds = append(cmds, mandel.Pan(pk.dir))
				break
			}
		}
	}

	for i, k := range paletteKeys {
		if i < mandel.PaletteCount && inpututil.IsKeyJustPressed(k) {
			cmds = append(cmds, mandel.SelectPalette(mandel.PaletteID(i+1)))
		}
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		x, y := ebiten.CursorPosition()
		dir := mandel.DirIn
		if dy < 0 {
			dir = mandel.DirOut
		}
		cmds = append(cmds, mandel.Zoom(dir, x, y))
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		cmds = append(cmds, mandel.Iterations(mandel.DirIncrease))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		cmds = append(cmds, mandel.Iterations(mandel.DirDecrease))
	}
	return cmds
}

// repeating reports a key press on the first tick and then at the repeat rate while held.
func repeating(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	if d == 1 {
		return true
	}
	return d >= repeatDelay && (d-repeatDelay)%repeatEvery == 0
}
