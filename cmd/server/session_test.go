package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mandel "github.com/marben/mandel_explorer"
	"github.com/marben/mandel_explorer/internal/config"
	"github.com/marben/mandel_explorer/internal/wire"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Server.Width = 40
	cfg.Server.Height = 30
	cfg.Server.StaticDir = "testdata"
	cfg.Server.MaxWidth = 80
	cfg.Server.MaxHeight = 60
	cfg.Server.IterationCap = 64
	cfg.View.Iterations = 32
	return cfg
}

func startServer(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(webServer(cfg, log).Handler)
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + wire.Path
	c, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	c.SetReadLimit(16 << 20)
	t.Cleanup(func() { c.CloseNow() })
	return c
}

func readFrame(t *testing.T, ctx context.Context, c *websocket.Conn) (wire.FrameHeader, image.Image) {
	t.Helper()
	var hdr wire.FrameHeader
	require.NoError(t, wsjson.Read(ctx, c, &hdr))

	typ, data, err := c.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, websocket.MessageBinary, typ)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return hdr, img
}

func TestSessionSendsInitialFrame(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := dial(t, ctx, startServer(t, testConfig()))
	hdr, img := readFrame(t, ctx, c)

	assert.Equal(t, uint64(1), hdr.Seq)
	assert.Equal(t, image.Rect(0, 0, 40, 30), img.Bounds())
	assert.Equal(t, 40, hdr.Width)
	assert.Equal(t, 32, hdr.Status.MaxIter)
	assert.Equal(t, 1.0, hdr.Status.Zoom)
	assert.Equal(t, mandel.DefaultRegion.Xmin, hdr.Xmin)
	assert.Contains(t, hdr.Text, "Max Iterations: 32")
}

func TestSessionAppliesCommands(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := dial(t, ctx, startServer(t, testConfig()))
	readFrame(t, ctx, c)

	require.NoError(t, wsjson.Write(ctx, c, mandel.Zoom(mandel.DirIn, 20, 15)))
	hdr, _ := readFrame(t, ctx, c)
	assert.Equal(t, 2.0, hdr.Status.Zoom)

	require.NoError(t, wsjson.Write(ctx, c, mandel.Resize(64, 48)))
	hdr, img := readFrame(t, ctx, c)
	assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())
	assert.Equal(t, 48, hdr.Height)

	// Invalid commands are dropped without producing a frame.
	require.NoError(t, wsjson.Write(ctx, c, mandel.Command{Kind: "teleport"}))
	require.NoError(t, wsjson.Write(ctx, c, mandel.SelectPalette(99)))
	require.NoError(t, wsjson.Write(ctx, c, mandel.Iterations(mandel.DirIncrease)))
	hdr, _ = readFrame(t, ctx, c)
	assert.Equal(t, 64, hdr.Status.MaxIter)
	assert.Equal(t, mandel.DefaultPalette, hdr.Palette)
}

func TestSessionQuitClosesNormally(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := dial(t, ctx, startServer(t, testConfig()))
	readFrame(t, ctx, c)

	require.NoError(t, wsjson.Write(ctx, c, mandel.Quit()))
	_, _, err := c.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))
}

func TestSessionsAreIndependent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ts := startServer(t, testConfig())
	a := dial(t, ctx, ts)
	b := dial(t, ctx, ts)
	readFrame(t, ctx, a)
	readFrame(t, ctx, b)

	require.NoError(t, wsjson.Write(ctx, a, mandel.Iterations(mandel.DirDecrease)))
	hdr, _ := readFrame(t, ctx, a)
	assert.Equal(t, 16, hdr.Status.MaxIter)

	require.NoError(t, wsjson.Write(ctx, b, mandel.Pan(mandel.DirUp)))
	hdr, _ = readFrame(t, ctx, b)
	assert.Equal(t, 32, hdr.Status.MaxIter)
	assert.Equal(t, uint64(2), hdr.Seq)
}

func TestSessionEnforcesServerLimits(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := dial(t, ctx, startServer(t, testConfig()))
	readFrame(t, ctx, c)

	for range 3 {
		require.NoError(t, wsjson.Write(ctx, c, mandel.Iterations(mandel.DirIncrease)))
		hdr, _ := readFrame(t, ctx, c)
		assert.LessOrEqual(t, hdr.Status.MaxIter, 64)
	}

	// Too large for this server: dropped without a frame.
	require.NoError(t, wsjson.Write(ctx, c, mandel.Resize(81, 60)))
	require.NoError(t, wsjson.Write(ctx, c, mandel.Resize(80, 61)))
	require.NoError(t, wsjson.Write(ctx, c, mandel.Iterations(mandel.DirDecrease)))
	hdr, img := readFrame(t, ctx, c)
	assert.Equal(t, image.Rect(0, 0, 40, 30), img.Bounds())
	assert.Equal(t, 32, hdr.Status.MaxIter)

	require.NoError(t, wsjson.Write(ctx, c, mandel.Resize(80, 60)))
	_, img = readFrame(t, ctx, c)
	assert.Equal(t, image.Rect(0, 0, 80, 60), img.Bounds())
}

func TestSessionStartsWithinIterationCap(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := testConfig()
	cfg.View.Iterations = 1000
	c := dial(t, ctx, startServer(t, cfg))
	hdr, _ := readFrame(t, ctx, c)
	assert.Equal(t, 64, hdr.Status.MaxIter)
}

func TestSessionSkipsStaleUpdate(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	x, err := mandel.NewExplorer(mandel.Options{View: mandel.DefaultViewport(), Width: 20, Height: 10})
	require.NoError(t, err)
	// The command is applied by this frame but its update signal is left behind.
	x.Enqueue(mandel.Pan(mandel.DirUp))
	_, err = x.Frame()
	require.NoError(t, err)
	require.Len(t, x.Updates(), 1)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()
		_ = newSession(conn, x, log, image.Pt(100, 100)).serve(r.Context())
	}))
	t.Cleanup(ts.Close)

	c := dial(t, ctx, ts)
	hdr, _ := readFrame(t, ctx, c)
	assert.Equal(t, uint64(2), hdr.Seq)

	require.NoError(t, wsjson.Write(ctx, c, mandel.Iterations(mandel.DirIncrease)))
	hdr, _ = readFrame(t, ctx, c)
	assert.Equal(t, uint64(3), hdr.Seq)
	assert.Equal(t, 2*mandel.DefaultMaxIter, hdr.Status.MaxIter)
}
