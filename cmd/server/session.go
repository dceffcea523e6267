package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/marben/mandel_explorer"
	"github.com/marben/mandel_explorer/internal/wire"
)

// session drives one browser connection. It owns its Explorer: the reader goroutine
// only enqueues commands, and frames are rendered and sent from serve's goroutine.
type session struct {
	conn *websocket.Conn
	x    *mandel.Explorer
	log  *slog.Logger
	enc  png.Encoder
	buf  bytes.Buffer
	// maxSize bounds the frames a client may resize to.
	maxSize image.Point

	framesSent int
	skipped    int
}

func newSession(conn *websocket.Conn, x *mandel.Explorer, log *slog.Logger, maxSize image.Point) *session {
	return &session{
		conn:    conn,
		x:       x,
		log:     log,
		enc:     png.Encoder{CompressionLevel: png.BestSpeed},
		maxSize: maxSize,
	}
}

// serve sends the first frame, then one frame per batch of commands, until the client
// goes away or sends quit. A quit closes the connection normally and returns nil.
func (s *session) serve(ctx context.Context) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	go func() {
		cancel(s.readLoop(ctx))
	}()

	if err := s.sendFrame(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case <-s.x.Updates():
			if s.x.Pending() == 0 {
				// Already applied by the previous frame.
				s.skipped++
				continue
			}
			err := s.sendFrame(ctx)
			if errors.Is(err, mandel.ErrQuit) {
				s.log.Info("client quit", "frames", s.framesSent)
				return s.conn.Close(websocket.StatusNormalClosure, "quit")
			}
			if err != nil {
				return err
			}
		}
	}
}

// readLoop decodes commands until the connection fails. Invalid commands are dropped.
func (s *session) readLoop(ctx context.Context) error {
	for {
		var cmd mandel.Command
		if err := wsjson.Read(ctx, s.conn, &cmd); err != nil {
			return fmt.Errorf("read command: %w", err)
		}
		if err := cmd.Validate(); err != nil {
			s.log.Warn("ignoring command", "err", err)
			continue
		}
		if cmd.Kind == mandel.CmdResize && (cmd.X > s.maxSize.X || cmd.Y > s.maxSize.Y) {
			s.log.Warn("ignoring resize", "size", fmt.Sprintf("%dx%d", cmd.X, cmd.Y), "max", s.maxSize)
			continue
		}
		s.log.Debug("command", "kind", cmd.Kind, "dir", cmd.Dir, "x", cmd.X, "y", cmd.Y, "palette", cmd.Palette)
		s.x.Enqueue(cmd)
	}
}

func (s *session) sendFrame(ctx context.Context) error {
	f, err := s.x.Frame()
	if err != nil {
		return err
	}

	s.buf.Reset()
	if err := s.enc.Encode(&s.buf, f.Image); err != nil {
		return fmt.Errorf("encode frame %d: %w", f.Seq, err)
	}
	if err := wsjson.Write(ctx, s.conn, wire.NewFrameHeader(f)); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if err := s.conn.Write(ctx, websocket.MessageBinary, s.buf.Bytes()); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	s.framesSent++
	return nil
}
