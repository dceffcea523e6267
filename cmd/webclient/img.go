//go:build js && wasm

package main

import (
	"image"
	"syscall/js"
)

// displayImage puts img on the canvas at the origin.
func displayImage(canvas js.Value, img *image.RGBA) {
	ctx := canvas.Call("getContext", "2d")

	width := img.Rect.Dx()
	height := img.Rect.Dy()
	if canvas.Get("width").Int() != width || canvas.Get("height").Int() != height {
		canvas.Set("width", width)
		canvas.Set("height", height)
	}

	// ImageData wants a Uint8ClampedArray of width * height * 4 (RGBA)
	jsData := js.Global().Get("Uint8ClampedArray").New(len(img.Pix))
	js.CopyBytesToJS(jsData, img.Pix)

	imageData := js.Global().Get("ImageData").New(jsData, width, height)
	ctx.Call("putImageData", imageData, 0, 0)
}

// toRGBA returns img as *image.RGBA, converting only when the decoder produced another layout.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

func initCanvas(canvas js.Value, width, height int, color string) {
	canvas.Set("width", width)
	canvas.Set("height", height)

	ctx := canvas.Call("getContext", "2d")
	ctx.Set("fillStyle", color)
	ctx.Call("fillRect", 0, 0, width, height)
}
