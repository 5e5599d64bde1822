package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTimeout bounds how long Capture waits for the first frame.
	DefaultTimeout = 3 * time.Second

	// DefaultJPEGQuality matches a 0.9 compression factor.
	DefaultJPEGQuality = 90
)

var (
	// ErrNoDisplay is returned when no capturable display exists.
	ErrNoDisplay = errors.New("no display available for capture")

	// ErrTimeout is returned when no frame arrives within the timeout.
	ErrTimeout = errors.New("timed out waiting for a frame")
)

// Engine captures one still image per call. Each call runs its own session
// and never shares stream state with other calls.
type Engine struct {
	Source  Source
	Timeout time.Duration
	Logger  *slog.Logger

	// Trace, when set, observes every state transition.
	Trace func(session string, from, to State)
}

// Capture returns the first frame of a stream opened against the first
// display. The stream is stopped before Capture returns on every path that
// opened one.
func (e *Engine) Capture(ctx context.Context) (image.Image, error) {
	s := &session{
		id:     uuid.NewString(),
		logger: e.logger(),
		trace:  e.Trace,
		frames: make(chan image.Image, 1),
	}
	img, err := s.run(ctx, e.Source, e.timeout())
	if err != nil {
		s.fail(err)
		return nil, err
	}
	return img, nil
}

// CaptureJPEG captures a frame and encodes it as JPEG.
func (e *Engine) CaptureJPEG(ctx context.Context, quality int) ([]byte, error) {
	img, err := e.Capture(ctx)
	if err != nil {
		return nil, err
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Engine) timeout() time.Duration {
	if e.Timeout <= 0 {
		return DefaultTimeout
	}
	return e.Timeout
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

type session struct {
	id     string
	logger *slog.Logger
	trace  func(string, State, State)

	mu    sync.Mutex
	state State

	delivered atomic.Bool
	frames    chan image.Image

	stream   Stream
	stopOnce sync.Once
}

func (s *session) run(ctx context.Context, src Source, timeout time.Duration) (image.Image, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no capture source", ErrNoDisplay)
	}
	s.advance(EnumeratingDisplays)
	displays, err := src.Displays(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate displays: %w", err)
	}
	if len(displays) == 0 {
		return nil, ErrNoDisplay
	}

	s.advance(Filtering)
	target := displays[0]
	cfg := PixelSize(target)
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("display %d has invalid size %dx%d", target.ID, cfg.Width, cfg.Height)
	}
	stream, err := src.Open(target, cfg, s.deliver)
	if err != nil {
		return nil, fmt.Errorf("open stream on display %d: %w", target.ID, err)
	}
	s.stream = stream

	s.advance(Streaming)
	s.logger.Debug("capture stream starting", "session", s.id, "display", target.ID, "width", cfg.Width, "height", cfg.Height)
	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("start stream: %w", err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case img := <-s.frames:
		s.advance(FrameCaptured)
		s.teardown()
		s.advance(Stopped)
		return img, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// deliver accepts the first frame and drops the rest.
func (s *session) deliver(frame image.Image) {
	if frame == nil || !s.delivered.CompareAndSwap(false, true) {
		return
	}
	s.frames <- frame
}

func (s *session) teardown() {
	if s.stream == nil {
		return
	}
	s.stopOnce.Do(func() {
		if err := s.stream.Stop(); err != nil {
			s.logger.Warn("capture stream stop failed", "session", s.id, "error", err)
		}
	})
}

func (s *session) fail(err error) {
	s.teardown()
	s.logger.Debug("capture failed", "session", s.id, "error", err)
	s.advance(Failed)
}

func (s *session) advance(to State) {
	s.mu.Lock()
	from := s.state
	if !CanTransition(from, to) {
		s.mu.Unlock()
		s.logger.Error("invalid capture state transition", "session", s.id, "from", from, "to", to)
		return
	}
	s.state = to
	s.mu.Unlock()
	if s.trace != nil {
		s.trace(s.id, from, to)
	}
}
