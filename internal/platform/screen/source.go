// Package screen implements a capture.Source by polling display grabs.
package screen

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/kbinani/screenshot"
	"github.com/mj1618/desktop-pilot/internal/capture"
	"golang.org/x/image/draw"
)

// DefaultInterval is the delay between frames of a polling stream.
const DefaultInterval = 33 * time.Millisecond

// Source enumerates active displays and opens polling streams on them.
type Source struct {
	// Interval is the delay between grabs. Zero means DefaultInterval.
	Interval time.Duration

	// ScaleOf returns the backing scale factor of a display. Nil means 1.
	ScaleOf func(display int) float64

	Logger *slog.Logger

	// grab captures a rectangle of the virtual screen. Tests replace it.
	grab func(r image.Rectangle) (*image.RGBA, error)
	// bounds lists active display bounds. Tests replace it.
	bounds func() []image.Rectangle
}

var _ capture.Source = (*Source)(nil)

// NewSource returns a Source backed by kbinani/screenshot.
func NewSource(interval time.Duration, logger *slog.Logger) *Source {
	return &Source{Interval: interval, Logger: logger}
}

func (s *Source) displayBounds() []image.Rectangle {
	if s.bounds != nil {
		return s.bounds()
	}
	n := screenshot.NumActiveDisplays()
	out := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, screenshot.GetDisplayBounds(i))
	}
	return out
}

func (s *Source) Displays(ctx context.Context) ([]capture.Display, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rects := s.displayBounds()
	displays := make([]capture.Display, 0, len(rects))
	for i, r := range rects {
		if r.Empty() {
			continue
		}
		scale := 1.0
		if s.ScaleOf != nil {
			if f := s.ScaleOf(i); f > 0 {
				scale = f
			}
		}
		displays = append(displays, capture.Display{
			ID:     i,
			Width:  r.Dx(),
			Height: r.Dy(),
			Scale:  scale,
		})
	}
	return displays, nil
}

func (s *Source) Open(d capture.Display, cfg capture.StreamConfig, handler capture.FrameHandler) (capture.Stream, error) {
	rects := s.displayBounds()
	if d.ID < 0 || d.ID >= len(rects) {
		return nil, fmt.Errorf("display %d is no longer active", d.ID)
	}
	if handler == nil {
		return nil, fmt.Errorf("frame handler is required")
	}
	grab := s.grab
	if grab == nil {
		grab = screenshot.CaptureRect
	}
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &pollStream{
		rect:     rects[d.ID],
		cfg:      cfg,
		handler:  handler,
		grab:     grab,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}, nil
}

// pollStream grabs the display rectangle repeatedly until stopped.
type pollStream struct {
	rect     image.Rectangle
	cfg      capture.StreamConfig
	handler  capture.FrameHandler
	grab     func(image.Rectangle) (*image.RGBA, error)
	interval time.Duration
	logger   *slog.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

func (p *pollStream) Start() error {
	started := false
	p.startOnce.Do(func() {
		started = true
		p.wg.Add(1)
		go p.loop()
	})
	if !started {
		return fmt.Errorf("stream already started")
	}
	return nil
}

func (p *pollStream) loop() {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		img, err := p.grab(p.rect)
		if err != nil {
			p.logger.Debug("display grab failed", "rect", p.rect, "error", err)
		} else {
			select {
			case <-p.done:
				return
			default:
			}
			p.handler(resize(img, p.cfg))
		}
		select {
		case <-p.done:
			return
		case <-ticker.C:
		}
	}
}

func (p *pollStream) Stop() error {
	p.stopOnce.Do(func() { close(p.done) })
	p.wg.Wait()
	return nil
}

// resize scales src to the configured pixel size when they differ.
func resize(src *image.RGBA, cfg capture.StreamConfig) image.Image {
	b := src.Bounds()
	if cfg.Width <= 0 || cfg.Height <= 0 || (b.Dx() == cfg.Width && b.Dy() == cfg.Height) {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
