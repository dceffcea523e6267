package mandel

import (
	"fmt"
	"image"
	"sync"
	"time"
)

// Frame is one finished picture together with the viewport snapshot it was computed from.
// The image belongs to whoever received the Frame.
type Frame struct {
	Seq     uint64
	Image   *image.RGBA
	View    Viewport
	Elapsed time.Duration
}

// Options configure an Explorer.
type Options struct {
	View          Viewport
	Width, Height int
	Nav           NavOptions
	Engine        *Engine
}

// Explorer owns the authoritative viewport and runs the frame pipeline:
// queued commands are applied serially at the start of Frame, then a snapshot of the
// viewport is computed and coloured. Enqueue may be called from any goroutine;
// commands arriving while a frame is computing take effect on the next frame.
type Explorer struct {
	engine *Engine
	nav    NavOptions

	qmu    sync.Mutex
	queue  []Command
	notify chan struct{}

	// fmu is held for the whole of Frame; view, palette and size change only under it.
	fmu     sync.Mutex
	view    Viewport
	palette Palette
	w, h    int
	seq     uint64
	quit    bool
}

// NewExplorer validates opts and returns an Explorer ready to produce frames.
func NewExplorer(opts Options) (*Explorer, error) {
	if err := opts.View.Validate(); err != nil {
		return nil, fmt.Errorf("initial view: %w", err)
	}
	if opts.Width < 1 || opts.Height < 1 || opts.Width > MaxFrameSide || opts.Height > MaxFrameSide {
		return nil, fmt.Errorf("bad frame size %dx%d", opts.Width, opts.Height)
	}
	p, err := LookupPalette(opts.View.Palette)
	if err != nil {
		return nil, err
	}
	e := opts.Engine
	if e == nil {
		e = NewEngine()
	}
	return &Explorer{
		engine:  e,
		nav:     opts.Nav,
		notify:  make(chan struct{}, 1),
		view:    opts.View,
		palette: p,
		w:       opts.Width,
		h:       opts.Height,
	}, nil
}

// Enqueue queues commands for the next frame.
func (x *Explorer) Enqueue(cmds ...Command) {
	if len(cmds) == 0 {
		return
	}
	x.qmu.Lock()
	x.queue = append(x.queue, cmds...)
	x.qmu.Unlock()

	select {
	case x.notify <- struct{}{}:
	default:
	}
}

// Updates delivers a value whenever commands have been queued since the last receive.
func (x *Explorer) Updates() <-chan struct{} {
	return x.notify
}

// Pending reports how many commands are queued for the next frame.
func (x *Explorer) Pending() int {
	x.qmu.Lock()
	defer x.qmu.Unlock()
	return len(x.queue)
}

// View returns a snapshot of the current viewport.
func (x *Explorer) View() Viewport {
	x.fmu.Lock()
	defer x.fmu.Unlock()
	return x.view
}

// Size returns the current pixel grid size.
func (x *Explorer) Size() (w, h int) {
	x.fmu.Lock()
	defer x.fmu.Unlock()
	return x.w, x.h
}

// Frame applies queued commands and renders the resulting viewport.
// It returns ErrQuit once a quit command has been seen.
func (x *Explorer) Frame() (*Frame, error) {
	x.fmu.Lock()
	defer x.fmu.Unlock()

	x.applyPending()
	if x.quit {
		return nil, ErrQuit
	}

	start := time.Now()
	view, w, h := x.view, x.w, x.h
	grid := x.engine.Compute(view, w, h)
	img := x.engine.Colorize(grid, x.palette)
	x.seq++

	f := &Frame{
		Seq:     x.seq,
		Image:   img,
		View:    view,
		Elapsed: time.Since(start),
	}
	Logger().Debug("frame rendered",
		"seq", f.Seq,
		"size", fmt.Sprintf("%dx%d", w, h),
		"iterations", view.MaxIter,
		"zoom", view.Zoom,
		"elapsed", f.Elapsed)
	return f, nil
}

// applyPending drains the queue. Must be called with fmu held.
func (x *Explorer) applyPending() {
	x.qmu.Lock()
	cmds := x.queue
	x.queue = nil
	x.qmu.Unlock()

	for _, c := range cmds {
		switch c.Kind {
		case CmdQuit:
			x.quit = true
		case CmdResize:
			if c.X >= 1 && c.Y >= 1 && c.X <= MaxFrameSide && c.Y <= MaxFrameSide {
				x.w, x.h = c.X, c.Y
			}
		default:
			prev := x.view.Palette
			x.view = x.view.Apply(c, x.w, x.h, x.nav)
			if x.view.Palette != prev {
				// Validated by SelectPalette.
				x.palette, _ = LookupPalette(x.view.Palette)
			}
		}
	}
	x.view.mustValid()
}
