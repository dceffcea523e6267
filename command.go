package mandel

import (
	"errors"
	"fmt"
)

// ErrQuit is returned by Explorer.Frame once a quit command has been processed.
var ErrQuit = errors.New("mandel: quit requested")

// CommandKind names a command. The string form is used on the wire.
type CommandKind string

const (
	CmdPan        CommandKind = "pan"
	CmdZoom       CommandKind = "zoom"
	CmdIterations CommandKind = "iterations"
	CmdPalette    CommandKind = "palette"
	CmdQuit       CommandKind = "quit"

	// CmdResize changes the pixel grid size. Only the web frontend sends it.
	CmdResize CommandKind = "resize"
)

// Direction qualifies pan, zoom and iteration commands.
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"

	DirIn  Direction = "in"
	DirOut Direction = "out"

	DirIncrease Direction = "increase"
	DirDecrease Direction = "decrease"
)

// Command is one discrete user input, already decoded from whatever device produced it.
// X and Y carry the cursor pixel for zoom, and the new size for resize.
type Command struct {
	Kind    CommandKind `json:"kind"`
	Dir     Direction   `json:"dir,omitempty"`
	X       int         `json:"x,omitempty"`
	Y       int         `json:"y,omitempty"`
	Palette PaletteID   `json:"palette,omitempty"`
}

func Pan(dir Direction) Command { return Command{Kind: CmdPan, Dir: dir} }
func Zoom(dir Direction, x, y int) Command { return Command{Kind: CmdZoom, Dir: dir, X: x, Y: y} }
func Iterations(dir Direction) Command { return Command{Kind: CmdIterations, Dir: dir} }
func SelectPalette(id PaletteID) Command { return Command{Kind: CmdPalette, Palette: id} }
func Resize(w, h int) Command { return Command{Kind: CmdResize, X: w, Y: h} }
func Quit() Command { return Command{Kind: CmdQuit} }

// Validate rejects commands that no frontend should produce. Frontends reading
// untrusted input (the websocket) call it before enqueueing.
func (c Command) Validate() error {
	switch c.Kind {
	case CmdPan:
		switch c.Dir {
		case DirUp, DirDown, DirLeft, DirRight:
			return nil
		}
	case CmdZoom:
		if c.Dir == DirIn || c.Dir == DirOut {
			return nil
		}
	case CmdIterations:
		if c.Dir == DirIncrease || c.Dir == DirDecrease {
			return nil
		}
	case CmdPalette:
		if c.Palette.Valid() {
			return nil
		}
		return fmt.Errorf("unknown palette %d", c.Palette)
	case CmdResize:
		if c.X > 0 && c.Y > 0 && c.X <= MaxFrameSide && c.Y <= MaxFrameSide {
			return nil
		}
		return fmt.Errorf("bad frame size %dx%d", c.X, c.Y)
	case CmdQuit:
		return nil
	default:
		return fmt.Errorf("unknown command kind %q", c.Kind)
	}
	return fmt.Errorf("bad direction %q for %s", c.Dir, c.Kind)
}
