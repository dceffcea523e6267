//go:build js && wasm

package main

import (
	"syscall/js"

	mandel "github.com/marben/mandel_explorer"
)

var keyCommands = map[string]mandel.Command{
	"w":          mandel.Pan(mandel.DirUp),
	"ArrowUp":    mandel.Pan(mandel.DirUp),
	"a":          mandel.Pan(mandel.DirLeft),
	"ArrowLeft":  mandel.Pan(mandel.DirLeft),
	"s":          mandel.Pan(mandel.DirDown),
	"ArrowDown":  mandel.Pan(mandel.DirDown),
	"d":          mandel.Pan(mandel.DirRight),
	"ArrowRight": mandel.Pan(mandel.DirRight),
	"1":          mandel.SelectPalette(1),
	"2":          mandel.SelectPalette(2),
	"3":          mandel.SelectPalette(3),
	"4":          mandel.SelectPalette(4),
	"5":          mandel.SelectPalette(5),
	"6":          mandel.SelectPalette(6),
	"End":        mandel.Quit(),
	"Escape":     mandel.Quit(),
}

// bindInput installs DOM listeners that push commands to out. Callbacks run on the
// JS event loop and must not block, so a full channel drops the command.
func bindInput(canvas js.Value, out chan<- mandel.Command) {
	send := func(c mandel.Command) {
		select {
		case out <- c:
		default:
		}
	}

	js.Global().Get("document").Call("addEventListener", "keydown", js.FuncOf(func(this js.Value, args []js.Value) any {
		if c, ok := keyCommands[args[0].Get("key").String()]; ok {
			args[0].Call("preventDefault")
			send(c)
		}
		return nil
	}))

	canvas.Call("addEventListener", "wheel", js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := args[0]
		ev.Call("preventDefault")
		x, y := canvasPixel(canvas, ev)
		// Scrolling up (negative delta) zooms in.
		if ev.Get("deltaY").Float() < 0 {
			send(mandel.Zoom(mandel.DirIn, x, y))
		} else {
			send(mandel.Zoom(mandel.DirOut, x, y))
		}
		return nil
	}), map[string]any{"passive": false})

	canvas.Call("addEventListener", "mousedown", js.FuncOf(func(this js.Value, args []js.Value) any {
		switch args[0].Get("button").Int() {
		case 0:
			send(mandel.Iterations(mandel.DirIncrease))
		case 2:
			send(mandel.Iterations(mandel.DirDecrease))
		}
		return nil
	}))

	canvas.Call("addEventListener", "contextmenu", js.FuncOf(func(this js.Value, args []js.Value) any {
		args[0].Call("preventDefault")
		return nil
	}))
}

// canvasPixel converts a mouse event position to canvas pixel coordinates,
// accounting for CSS scaling of the canvas element.
func canvasPixel(canvas js.Value, ev js.Value) (int, int) {
	cw, ch := canvas.Get("clientWidth").Float(), canvas.Get("clientHeight").Float()
	x, y := ev.Get("offsetX").Float(), ev.Get("offsetY").Float()
	if cw > 0 && ch > 0 {
		x *= canvas.Get("width").Float() / cw
		y *= canvas.Get("height").Float() / ch
	}
	return int(x), int(y)
}
