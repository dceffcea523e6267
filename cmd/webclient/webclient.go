//go:build js && wasm

// webclient.go is a WASM web client for the Mandelbrot explorer server.
// It forwards keyboard and mouse input to the server and draws every frame it receives.
package main

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log"
	"syscall/js"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/marben/mandel_explorer"
	"github.com/marben/mandel_explorer/internal/wire"
)

// main is the entry point for the WASM web client.
// Note: all rendering is performed by the server; the client only sends commands and draws frames.
func main() {
	logScreenf("Starting WASM web client...")

	// Step 1: Determine server address for WebSocket connection
	loc := js.Global().Get("window").Get("location")
	host := loc.Get("host").String()
	proto := "ws"
	if loc.Get("protocol").String() == "https:" {
		proto = "wss"
	}
	websocketUrl := proto + "://" + host + wire.Path

	// Step 2: Connect to server via WebSocket
	ctx := context.Background()
	logScreenf("Connecting to Mandelbrot server at %s...", websocketUrl)
	conn, _, err := websocket.Dial(ctx, websocketUrl, nil)
	if err != nil {
		logFatalf("websocket.Dial: %v", err)
	}
	conn.SetReadLimit(64 << 20)
	logScreenf("WebSocket connected.")

	// Step 3: Size the canvas to its on-page size and tell the server
	canvas := js.Global().Get("document").Call("getElementById", "myCanvas")
	width, height := canvas.Get("clientWidth").Int(), canvas.Get("clientHeight").Int()
	initCanvas(canvas, width, height, "#3a3a6e")
	logScreenf("Canvas initialized to dimensions %dx%d", width, height)

	cmds := make(chan mandel.Command, 64)
	if width > 0 && height > 0 {
		cmds <- mandel.Resize(width, height)
	}
	bindInput(canvas, cmds)
	go commandLoop(ctx, conn, cmds)

	// Step 4: Draw frames until the server closes the connection
	logScreenf("Starting frame loop...")
	if err := frameLoop(ctx, conn, canvas); err != nil {
		if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
			logScreenf("Session closed.")
		} else {
			logScreenf("frameLoop: %v", err)
		}
	}

	// Block main goroutine to keep the page's callbacks alive
	select {}
}

// commandLoop writes queued commands to the server.
func commandLoop(ctx context.Context, conn *websocket.Conn, cmds <-chan mandel.Command) {
	for c := range cmds {
		if err := wsjson.Write(ctx, conn, c); err != nil {
			logScreenf("send %s: %v", c.Kind, err)
			return
		}
	}
}

// frameLoop reads header + PNG pairs and draws them.
func frameLoop(ctx context.Context, conn *websocket.Conn, canvas js.Value) error {
	for {
		var hdr wire.FrameHeader
		if err := wsjson.Read(ctx, conn, &hdr); err != nil {
			return fmt.Errorf("read frame header: %w", err)
		}
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("read frame %d: %w", hdr.Seq, err)
		}
		if typ != websocket.MessageBinary {
			return fmt.Errorf("frame %d: unexpected %s message", hdr.Seq, typ)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("decode frame %d: %w", hdr.Seq, err)
		}
		displayImage(canvas, toRGBA(img))
		hudSetStatus(hdr.Text)
	}
}

// logScreenf appends a formatted message to the log element in the DOM.
func logScreenf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)

	doc := js.Global().Get("document")
	logElem := doc.Call("getElementById", "log")
	logElem.Set("textContent", logElem.Get("textContent").String()+msg+"\n")
}

// logFatalf logs a fatal error to the log window and terminates the program.
func logFatalf(format string, a ...any) {
	logScreenf("FATAL: "+format, a...)
	log.Fatalf(format, a...)
}

// hudSetStatus shows the server's status text (iterations, zoom, fps).
func hudSetStatus(status string) {
	js.Global().Get("document").Call("getElementById", "status").Set("textContent", status)
}
