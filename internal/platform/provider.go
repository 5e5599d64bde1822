package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/mj1618/desktop-pilot/internal/ax"
	"github.com/mj1618/desktop-pilot/internal/capture"
	"github.com/mj1618/desktop-pilot/internal/input"
	"github.com/mj1618/desktop-pilot/internal/windows"
)

// Provider bundles the OS backends. A nil field means the capability is
// not available on this platform.
type Provider struct {
	Accessibility ax.System
	Windows       windows.Lister
	Input         input.Device
	Screen        capture.Source
	Apps          AppCatalog
	Names         NameChain
}

// ErrUnsupported is returned on unsupported platforms.
var ErrUnsupported = fmt.Errorf("desktop-pilot is not supported on %s/%s; supported: darwin/amd64, darwin/arm64", runtime.GOOS, runtime.GOARCH)

// Options carries runtime settings into backends.
type Options struct {
	Logger *slog.Logger

	// FrameInterval is the delay between frames of a capture stream.
	FrameInterval time.Duration
}

// Backend fills in the parts of a Provider it supports.
type Backend func(p *Provider, opts Options) error

var (
	backendsMu sync.Mutex
	backends   []namedBackend
)

type namedBackend struct {
	name string
	fn   Backend
}

// RegisterBackend is called by platform packages from init().
// See internal/platform/darwin/init.go for the macOS registration.
func RegisterBackend(name string, fn Backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends = append(backends, namedBackend{name: name, fn: fn})
}

// RequestPermissionsFunc is set by platform-specific packages via init().
// It triggers OS permission prompts (e.g. accessibility) at startup.
var RequestPermissionsFunc func()

// NewProvider builds a Provider from every registered backend.
func NewProvider(opts Options) (*Provider, error) {
	backendsMu.Lock()
	list := append([]namedBackend(nil), backends...)
	backendsMu.Unlock()

	if len(list) == 0 {
		return nil, ErrUnsupported
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	p := &Provider{}
	var errs []error
	for _, b := range list {
		if err := b.fn(p, opts); err != nil {
			errs = append(errs, fmt.Errorf("backend %s: %w", b.name, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return p, nil
}

// NameChain asks each namer in turn and returns the first non-empty name.
type NameChain []ax.AppNamer

func (c NameChain) AppName(pid int) (string, error) {
	var lastErr error
	for _, n := range c {
		name, err := n.AppName(pid)
		if err == nil && name != "" {
			return name, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no name for pid %d", pid)
	}
	return "", lastErr
}
