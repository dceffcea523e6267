package mandel

import (
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExplorer(t *testing.T, v Viewport, w, h int) *Explorer {
	t.Helper()
	x, err := NewExplorer(Options{View: v, Width: w, Height: h, Engine: NewEngine(WithWorkers(4))})
	require.NoError(t, err)
	return x
}

func TestNewExplorerRejectsBadOptions(t *testing.T) {
	bad := DefaultViewport()
	bad.MaxIter = 0
	_, err := NewExplorer(Options{View: bad, Width: 10, Height: 10})
	assert.Error(t, err)

	_, err = NewExplorer(Options{View: DefaultViewport(), Width: 0, Height: 10})
	assert.Error(t, err)

	_, err = NewExplorer(Options{View: DefaultViewport(), Width: 10, Height: MaxFrameSide + 1})
	assert.Error(t, err)
}

func TestExplorerFrame(t *testing.T) {
	x := newTestExplorer(t, DefaultViewport(), 64, 48)
	f, err := x.Frame()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), f.Seq)
	assert.Equal(t, image.Rect(0, 0, 64, 48), f.Image.Bounds())
	assert.Equal(t, DefaultViewport(), f.View)
	assert.GreaterOrEqual(t, f.Elapsed, time.Duration(0))

	f2, err := x.Frame()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), f2.Seq)
	assert.Equal(t, f.Image.Pix, f2.Image.Pix)
	assert.NotSame(t, f.Image, f2.Image)
}

func TestExplorerAppliesCommandsInOrder(t *testing.T) {
	x := newTestExplorer(t, DefaultViewport(), 32, 32)
	x.Enqueue(
		Iterations(DirIncrease),
		Iterations(DirIncrease),
		Iterations(DirDecrease),
		Pan(DirRight),
		SelectPalette(3),
	)

	want := DefaultViewport().
		AdjustIterations(IterIncrease, 0).
		AdjustIterations(IterIncrease, 0).
		AdjustIterations(IterDecrease, 0).
		Pan(AxisX, 1)
	want.Palette = 3

	f, err := x.Frame()
	require.NoError(t, err)
	assert.Equal(t, want, f.View)
	assert.Equal(t, want, x.View())
}

func TestExplorerZoomUsesCurrentSize(t *testing.T) {
	x := newTestExplorer(t, DefaultViewport(), 100, 50)
	x.Enqueue(Resize(200, 80), Zoom(DirIn, 150, 20))

	f, err := x.Frame()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 80), f.Image.Bounds())
	assert.Equal(t, DefaultViewport().ZoomAt(150, 20, 200, 80, ZoomIn), f.View)

	w, h := x.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 80, h)
}

func TestExplorerIgnoresBadResize(t *testing.T) {
	x := newTestExplorer(t, DefaultViewport(), 10, 10)
	x.Enqueue(Resize(0, 5), Resize(MaxFrameSide+1, 5))
	f, err := x.Frame()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 10), f.Image.Bounds())
}

func TestExplorerPaletteSwitchRecolours(t *testing.T) {
	v := NewViewport(Region{Xmin: -2, Xmax: 2, Ymin: -2, Ymax: 2})
	x := newTestExplorer(t, v, 5, 5)

	f, err := x.Frame()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{A: 255}, f.Image.RGBAAt(2, 2))

	x.Enqueue(SelectPalette(2))
	f, err = x.Frame()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0, G: 7, B: 100, A: 255}, f.Image.RGBAAt(2, 2))
}

func TestExplorerIterationCap(t *testing.T) {
	x, err := NewExplorer(Options{
		View:   DefaultViewport(),
		Width:  8,
		Height: 8,
		Nav:    NavOptions{IterationCap: 300},
	})
	require.NoError(t, err)
	x.Enqueue(Iterations(DirIncrease), Iterations(DirIncrease), Iterations(DirIncrease))
	f, err := x.Frame()
	require.NoError(t, err)
	assert.Equal(t, 300, f.View.MaxIter)
}

func TestExplorerQuit(t *testing.T) {
	x := newTestExplorer(t, DefaultViewport(), 8, 8)
	x.Enqueue(Quit())
	_, err := x.Frame()
	assert.ErrorIs(t, err, ErrQuit)

	_, err = x.Frame()
	assert.ErrorIs(t, err, ErrQuit)
}

func TestExplorerUpdatesSignal(t *testing.T) {
	x := newTestExplorer(t, DefaultViewport(), 8, 8)
	select {
	case <-x.Updates():
		t.Fatal("unexpected update before any command")
	default:
	}

	x.Enqueue(Pan(DirUp))
	x.Enqueue(Pan(DirUp))
	select {
	case <-x.Updates():
	default:
		t.Fatal("expected an update")
	}
}

func TestExplorerConcurrentEnqueue(t *testing.T) {
	x := newTestExplorer(t, DefaultViewport(), 16, 16)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				x.Enqueue(Pan(DirLeft), Pan(DirRight))
			}
		}()
	}
	for i := 0; i < 5; i++ {
		_, err := x.Frame()
		require.NoError(t, err)
	}
	wg.Wait()

	f, err := x.Frame()
	require.NoError(t, err)
	assert.InDelta(t, DefaultRegion.Xmin, f.View.Xmin, 1e-12)
	assert.InDelta(t, DefaultRegion.Xmax, f.View.Xmax, 1e-12)
}

func TestExplorerPending(t *testing.T) {
	x := newTestExplorer(t, DefaultViewport(), 8, 8)
	assert.Equal(t, 0, x.Pending())

	x.Enqueue(Pan(DirUp), Pan(DirDown))
	assert.Equal(t, 2, x.Pending())

	_, err := x.Frame()
	require.NoError(t, err)
	assert.Equal(t, 0, x.Pending())
	// The signal outlives the commands it announced.
	assert.Len(t, x.Updates(), 1)
}
