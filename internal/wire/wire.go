// Package wire holds the messages exchanged between the explorer server and its web client.
//
// The client sends mandel.Command values as JSON text messages. For every frame the server
// sends a FrameHeader as a JSON text message followed by the PNG-encoded image as one
// binary message.
package wire

import mandel "github.com/marben/mandel_explorer"

// Path is the websocket endpoint.
const Path = "/ws"

// FrameHeader describes the PNG message that follows it.
type FrameHeader struct {
	Seq    uint64 `json:"seq"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	Status  mandel.Status    `json:"status"`
	Palette mandel.PaletteID `json:"palette"`
	Xmin    float64          `json:"xmin"`
	Xmax    float64          `json:"xmax"`
	Ymin    float64          `json:"ymin"`
	Ymax    float64          `json:"ymax"`

	// Text is the status overlay, already formatted.
	Text string `json:"text"`
}

// NewFrameHeader describes f. The frame rate is estimated from the frame's own compute time.
func NewFrameHeader(f *mandel.Frame) FrameHeader {
	b := f.Image.Bounds()
	st := mandel.StatusOf(f.View, mandel.FPSFromElapsed(f.Elapsed))
	return FrameHeader{
		Seq:     f.Seq,
		Width:   b.Dx(),
		Height:  b.Dy(),
		Status:  st,
		Palette: f.View.Palette,
		Xmin:    f.View.Xmin,
		Xmax:    f.View.Xmax,
		Ymin:    f.View.Ymin,
		Ymax:    f.View.Ymax,
		Text:    st.String(),
	}
}
