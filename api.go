package mandel

// FrameSource produces the next frame on demand.
type FrameSource interface {
	Frame() (*Frame, error)
}

// CommandSink accepts user commands from any goroutine.
type CommandSink interface {
	Enqueue(cmds ...Command)
}

var (
	_ FrameSource = (*Explorer)(nil)
	_ CommandSink = (*Explorer)(nil)
)
