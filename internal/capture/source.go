// Package capture takes a single still image of the main display from a
// push-based frame stream.
package capture

import (
	"context"
	"image"
	"math"
)

// Display is a capturable display surface. Width and Height are logical
// units; Scale is the backing scale factor.
type Display struct {
	ID     int
	Width  int
	Height int
	Scale  float64
}

// StreamConfig is the pixel size frames are delivered at.
type StreamConfig struct {
	Width  int
	Height int
}

// PixelSize returns the capture size for d: logical size times backing
// scale, so high-density displays are not downsampled.
func PixelSize(d Display) StreamConfig {
	scale := d.Scale
	if scale <= 0 {
		scale = 1
	}
	return StreamConfig{
		Width:  int(math.Round(float64(d.Width) * scale)),
		Height: int(math.Round(float64(d.Height) * scale)),
	}
}

// FrameHandler receives frames from a running stream. It may be called
// from any goroutine and takes ownership of the image.
type FrameHandler func(frame image.Image)

// Stream is an open capture session.
type Stream interface {
	Start() error
	Stop() error
}

// Source enumerates displays and opens frame streams against them.
type Source interface {
	Displays(ctx context.Context) ([]Display, error)
	Open(d Display, cfg StreamConfig, handler FrameHandler) (Stream, error)
}
