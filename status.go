package mandel

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Status is the information shown next to the picture.
type Status struct {
	MaxIter int     `json:"iterations"`
	Zoom    float64 `json:"zoom"`
	FPS     float64 `json:"fps"`
}

// StatusOf builds the status for a viewport. fps is measured by the frontend.
func StatusOf(v Viewport, fps float64) Status {
	return Status{MaxIter: v.MaxIter, Zoom: v.Zoom, FPS: fps}
}

func (s Status) String() string {
	fps := s.FPS
	if math.IsInf(fps, 0) || !(fps >= 0) {
		fps = 0
	}
	return fmt.Sprintf(" Max Iterations: %d\n Zoom: %sx\n FPS: %d",
		s.MaxIter,
		strconv.FormatFloat(s.Zoom, 'f', -1, 64),
		int64(math.Round(fps)))
}

// FPSFromElapsed converts one frame's duration to a rate, as a single-frame estimate.
func FPSFromElapsed(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(time.Second) / float64(d)
}
